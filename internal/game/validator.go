package game

import (
	"context"
	"fmt"

	"github.com/playmatatu/duels/internal/game/engine"
)

// Participant is a community member as seen by the core.
type Participant struct {
	ID string `json:"id"`
	// Bot may be set by trusted callers; the directory is consulted anyway.
	Bot bool `json:"bot,omitempty"`
}

// ChallengeRequest carries everything needed to propose a match.
type ChallengeRequest struct {
	CommunityID string      `json:"community_id"`
	Proposer    Participant `json:"proposer"`
	Opponent    Participant `json:"opponent"`
	Kind        engine.Kind `json:"game"`
	Stake       int64       `json:"stake"`
}

// Validator gates challenge creation. It only reads; no funds are held.
type Validator struct {
	registry  Registry
	wallet    Wallet
	directory Directory
}

func NewValidator(registry Registry, wallet Wallet, directory Directory) *Validator {
	return &Validator{registry: registry, wallet: wallet, directory: directory}
}

// Validate checks, in order: kind enabled, not a self challenge, opponent is
// human, both balances cover the stake. It stops at the first failure.
func (v *Validator) Validate(ctx context.Context, req ChallengeRequest) error {
	if !req.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownGameKind, req.Kind)
	}
	if req.Stake < 0 {
		return ErrInvalidStake
	}

	enabled, err := v.registry.IsEnabled(ctx, req.CommunityID, req.Kind)
	if err != nil {
		return fmt.Errorf("check %s enabled: %w", req.Kind, err)
	}
	if !enabled {
		return reject(ErrGameDisabled, "")
	}

	if req.Opponent.ID == req.Proposer.ID {
		return reject(ErrSelfChallenge, req.Proposer.ID)
	}
	if req.Opponent.ID == "" || req.Opponent.Bot {
		return reject(ErrInvalidOpponent, req.Opponent.ID)
	}
	bot, err := v.directory.IsBot(ctx, req.CommunityID, req.Opponent.ID)
	if err != nil {
		return fmt.Errorf("look up %s: %w", req.Opponent.ID, err)
	}
	if bot {
		return reject(ErrInvalidOpponent, req.Opponent.ID)
	}

	if req.Stake == 0 {
		return nil
	}
	for _, p := range []Participant{req.Proposer, req.Opponent} {
		bal, err := v.wallet.Balance(ctx, p.ID, req.CommunityID)
		if err != nil {
			return fmt.Errorf("read balance of %s: %w", p.ID, err)
		}
		if bal < req.Stake {
			return reject(ErrInsufficientFunds, p.ID)
		}
	}
	return nil
}
