// Package events publishes the outcome of finished matches to consumers
// outside the core (leaderboards, audit, logging).
package events

import (
	"context"
	"errors"
	"time"

	"github.com/playmatatu/duels/internal/game/engine"
)

// MatchCompleted is emitted exactly once per finished session.
type MatchCompleted struct {
	SessionID        string      `json:"session_id"`
	CommunityID      string      `json:"community_id"`
	Kind             engine.Kind `json:"game"`
	WinnerID         string      `json:"winner_id,omitempty"`
	LoserID          string      `json:"loser_id,omitempty"`
	Draw             bool        `json:"draw"`
	Stake            int64       `json:"stake"`
	SettlementFailed bool        `json:"settlement_failed"`
	FinishedAt       time.Time   `json:"finished_at"`
}

// Publisher delivers MatchCompleted events.
type Publisher interface {
	PublishMatchCompleted(ctx context.Context, ev MatchCompleted) error
}

// Fanout sends every event to all publishers and joins their errors.
type Fanout []Publisher

func (f Fanout) PublishMatchCompleted(ctx context.Context, ev MatchCompleted) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.PublishMatchCompleted(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) PublishMatchCompleted(context.Context, MatchCompleted) error { return nil }
