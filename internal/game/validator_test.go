package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/playmatatu/duels/internal/game/engine"
)

func request(stake int64) ChallengeRequest {
	return ChallengeRequest{
		CommunityID: "guild",
		Proposer:    Participant{ID: "alice"},
		Opponent:    Participant{ID: "bob"},
		Kind:        engine.KindAlignment,
		Stake:       stake,
	}
}

func TestValidateProposerShortOfStake(t *testing.T) {
	w := newFakeWallet(map[string]int64{"alice": 20, "bob": 500})
	v := NewValidator(newFakeRegistry(), w, newFakeDirectory())

	err := v.Validate(context.Background(), request(50))

	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	require.ErrorIs(t, err, ErrInsufficientFunds)
	require.Equal(t, "alice", pe.PlayerID)
	require.Equal(t, []string{"alice"}, w.reads)
}

func TestValidateOpponentShortOfStake(t *testing.T) {
	w := newFakeWallet(map[string]int64{"alice": 50, "bob": 49})
	err := NewValidator(newFakeRegistry(), w, newFakeDirectory()).Validate(context.Background(), request(50))

	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "bob", pe.PlayerID)
}

func TestValidateOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ChallengeRequest, *fakeRegistry)
		want   error
	}{
		{"unknown kind", func(r *ChallengeRequest, _ *fakeRegistry) { r.Kind = "chess" }, ErrUnknownGameKind},
		{"negative stake", func(r *ChallengeRequest, _ *fakeRegistry) { r.Stake = -1 }, ErrInvalidStake},
		{"disabled before self", func(r *ChallengeRequest, reg *fakeRegistry) {
			reg.disabled[engine.KindAlignment] = true
			r.Opponent = r.Proposer
		}, ErrGameDisabled},
		{"self before bot", func(r *ChallengeRequest, _ *fakeRegistry) {
			r.Opponent = Participant{ID: "alice", Bot: true}
		}, ErrSelfChallenge},
		{"bot before funds", func(r *ChallengeRequest, _ *fakeRegistry) {
			r.Opponent = Participant{ID: "helper", Bot: true}
			r.Stake = 1_000_000
		}, ErrInvalidOpponent},
		{"empty opponent", func(r *ChallengeRequest, _ *fakeRegistry) { r.Opponent = Participant{} }, ErrInvalidOpponent},
		{"registered bot before funds", func(r *ChallengeRequest, _ *fakeRegistry) {
			r.Opponent = Participant{ID: "helper"}
			r.Stake = 1_000_000
		}, ErrInvalidOpponent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newFakeRegistry()
			req := request(10)
			tt.mutate(&req, reg)
			err := NewValidator(reg, newFakeWallet(map[string]int64{"alice": 100, "bob": 100}), newFakeDirectory("helper")).
				Validate(context.Background(), req)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateZeroStakeSkipsWallet(t *testing.T) {
	w := newFakeWallet(nil)
	require.NoError(t, NewValidator(newFakeRegistry(), w, newFakeDirectory()).Validate(context.Background(), request(0)))
	require.Empty(t, w.reads)
}

func TestValidateRegistryError(t *testing.T) {
	reg := newFakeRegistry()
	reg.err = errors.New("redis down")
	err := NewValidator(reg, newFakeWallet(nil), newFakeDirectory()).Validate(context.Background(), request(0))
	require.Error(t, err)

	var pe *PreconditionError
	require.False(t, errors.As(err, &pe))
}

func TestValidateConsultsDirectory(t *testing.T) {
	w := newFakeWallet(map[string]int64{"alice": 100, "bob": 100})
	dir := newFakeDirectory("bob")

	err := NewValidator(newFakeRegistry(), w, dir).Validate(context.Background(), request(10))
	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	require.ErrorIs(t, err, ErrInvalidOpponent)
	require.Equal(t, "bob", pe.PlayerID)
	require.Empty(t, w.reads)

	dir.err = errors.New("redis down")
	err = NewValidator(newFakeRegistry(), w, dir).Validate(context.Background(), request(10))
	require.Error(t, err)
	require.False(t, errors.As(err, &pe))
}
