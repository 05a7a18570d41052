// Package registry stores which games each community has enabled, how
// often each one has been played, and which members are bots.
package registry

import (
	"context"
	"fmt"

	"github.com/playmatatu/duels/internal/game/engine"
	"github.com/playmatatu/duels/internal/models"
)

// Store is implemented by the Redis and in-memory registries. Kinds that
// were never toggled are enabled.
type Store interface {
	IsEnabled(ctx context.Context, communityID string, kind engine.Kind) (bool, error)
	SetEnabled(ctx context.Context, communityID string, kind engine.Kind, enabled bool) error
	IncrementPlayed(ctx context.Context, communityID string, kind engine.Kind) error
	Counts(ctx context.Context, communityID string) (map[engine.Kind]int64, error)
	// EnabledFlags returns only the kinds that were explicitly toggled.
	EnabledFlags(ctx context.Context, communityID string) (map[engine.Kind]bool, error)

	IsBot(ctx context.Context, communityID, userID string) (bool, error)
	SetBot(ctx context.Context, communityID, userID string, bot bool) error
	// Bots is sorted.
	Bots(ctx context.Context, communityID string) ([]string, error)
}

// Configs returns one entry per known game kind, in engine.Kinds order.
func Configs(ctx context.Context, s Store, communityID string) ([]models.GameKindConfig, error) {
	flags, err := s.EnabledFlags(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("read enabled flags: %w", err)
	}
	counts, err := s.Counts(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("read played counts: %w", err)
	}
	out := make([]models.GameKindConfig, 0, len(engine.Kinds))
	for _, k := range engine.Kinds {
		enabled, set := flags[k]
		out = append(out, models.GameKindConfig{
			CommunityID: communityID,
			GameKind:    string(k),
			Enabled:     enabled || !set,
			TotalPlayed: counts[k],
		})
	}
	return out, nil
}
