// Package history records finished matches in Postgres.
package history

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/playmatatu/duels/internal/events"
	"github.com/playmatatu/duels/internal/models"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Store appends one row per MatchCompleted event. It is registered as an
// events.Publisher so history is written alongside the other sinks.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// PublishMatchCompleted is idempotent per session id.
func (s *Store) PublishMatchCompleted(ctx context.Context, ev events.MatchCompleted) error {
	rec := models.MatchRecord{
		SessionID:        ev.SessionID,
		CommunityID:      ev.CommunityID,
		GameKind:         string(ev.Kind),
		WinnerID:         nullable(ev.WinnerID),
		LoserID:          nullable(ev.LoserID),
		Draw:             ev.Draw,
		Stake:            ev.Stake,
		SettlementFailed: ev.SettlementFailed,
		FinishedAt:       ev.FinishedAt,
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO matches (session_id, community_id, game_kind, winner_id, loser_id, draw, stake, settlement_failed, finished_at)
		VALUES (:session_id, :community_id, :game_kind, :winner_id, :loser_id, :draw, :stake, :settlement_failed, :finished_at)
		ON CONFLICT (session_id) DO NOTHING`, rec)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", ev.SessionID, err)
	}
	return nil
}

// Recent returns the newest matches of a community first.
func (s *Store) Recent(ctx context.Context, communityID string, limit int) ([]models.MatchRecord, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	out := []models.MatchRecord{}
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, session_id, community_id, game_kind, winner_id, loser_id, draw, stake, settlement_failed, finished_at
		FROM matches WHERE community_id = $1 ORDER BY finished_at DESC, id DESC LIMIT $2`, communityID, limit)
	if err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}
	return out, nil
}
