package game

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/game/engine"
)

func newChallenges(h *harness, opts ...ChallengeOption) *Challenges {
	return NewChallenges(h.manager, zap.NewNop(), append([]ChallengeOption{WithChallengeNotifier(h.notes)}, opts...)...)
}

func TestChallengeAcceptStartsSession(t *testing.T) {
	h := newHarness(t)
	cs := newChallenges(h)

	c := cs.Open(request(25))
	require.Equal(t, 1, h.notes.count("bob", NoticeChallengeReceived))

	out, err := cs.Respond(context.Background(), c.ID, "bob", true)
	require.NoError(t, err)
	require.Equal(t, ChallengeAccepted, out.Status)
	require.NotEmpty(t, out.SessionID)

	s, err := h.manager.Get(out.SessionID)
	require.NoError(t, err)
	require.Equal(t, [2]string{"alice", "bob"}, s.Players)
	require.Equal(t, int64(25), s.Stake)
	require.Equal(t, engine.KindAlignment, s.Kind)

	require.Equal(t, 0, cs.PendingCount())
	require.Equal(t, 1, h.notes.count("alice", NoticeChallengeResolved))
	require.Equal(t, out, cs.Wait(context.Background(), c))
}

func TestChallengeDecline(t *testing.T) {
	h := newHarness(t)
	cs := newChallenges(h)
	c := cs.Open(request(0))

	out, err := cs.Respond(context.Background(), c.ID, "bob", false)
	require.NoError(t, err)
	require.Equal(t, ChallengeDeclined, out.Status)
	require.ErrorIs(t, out.Err(), ErrChallengeDeclined)
	require.Zero(t, h.manager.ActiveCount())

	_, err = cs.Respond(context.Background(), c.ID, "bob", true)
	require.ErrorIs(t, err, ErrUnknownChallenge)
}

func TestChallengeOnlyOpponentMayRespond(t *testing.T) {
	h := newHarness(t)
	cs := newChallenges(h)
	c := cs.Open(request(0))

	for _, who := range []string{"alice", "mallory"} {
		_, err := cs.Respond(context.Background(), c.ID, who, true)
		require.ErrorIs(t, err, ErrNotChallengeOpponent)
	}
	require.Equal(t, ChallengePending, c.Status())
	require.Equal(t, 1, cs.PendingCount())
}

func TestChallengeExpires(t *testing.T) {
	h := newHarness(t)
	cs := newChallenges(h, WithChallengeTimeout(20*time.Millisecond))
	c := cs.Open(request(0))

	out := cs.Wait(context.Background(), c)
	require.Equal(t, ChallengeExpired, out.Status)
	require.Empty(t, out.SessionID)

	_, err := cs.Respond(context.Background(), c.ID, "bob", true)
	require.ErrorIs(t, err, ErrUnknownChallenge)
	require.Zero(t, h.manager.ActiveCount())
}

func TestChallengeLateAcceptExpires(t *testing.T) {
	h := newHarness(t)
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	cs := newChallenges(h, WithClock(clock.Now), WithChallengeTimeout(time.Hour))
	c := cs.Open(request(0))

	clock.Advance(time.Hour)
	out, err := cs.Respond(context.Background(), c.ID, "bob", true)
	require.ErrorIs(t, err, ErrChallengeExpired)
	require.Equal(t, ChallengeExpired, out.Status)
	require.Equal(t, ChallengeExpired, c.Status())
	require.Zero(t, h.manager.ActiveCount())
}

func TestChallengeProposerGivesUp(t *testing.T) {
	h := newHarness(t)
	cs := newChallenges(h)
	c := cs.Open(request(0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := cs.Wait(ctx, c)
	require.Equal(t, ChallengeCancelled, out.Status)

	_, err := cs.Respond(context.Background(), c.ID, "bob", true)
	require.ErrorIs(t, err, ErrUnknownChallenge)
}

func TestServiceProposeBlocksUntilAccepted(t *testing.T) {
	h := newHarness(t)
	cs := newChallenges(h)
	svc := NewService(NewValidator(h.registry, h.wallet, newFakeDirectory()), cs, h.manager, zap.NewNop())

	type result struct {
		out ChallengeOutcome
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := svc.Propose(context.Background(), request(10))
		done <- result{out, err}
	}()

	var id string
	require.Eventually(t, func() bool {
		n, ok := h.notes.last("bob", NoticeChallengeReceived)
		id = n.ChallengeID
		return ok
	}, time.Second, 5*time.Millisecond)

	select {
	case <-done:
		t.Fatal("propose returned before the opponent answered")
	default:
	}

	_, err := svc.RespondChallenge(context.Background(), id, "bob", true)
	require.NoError(t, err)

	r := <-done
	require.NoError(t, r.err)
	require.Equal(t, ChallengeAccepted, r.out.Status)

	_, err = svc.ProposeChallenge(context.Background(), request(10))
	require.ErrorIs(t, err, ErrSessionInProgress)
}

func TestServiceProposeRejectsBeforeOpening(t *testing.T) {
	h := newHarness(t)
	cs := newChallenges(h)
	svc := NewService(NewValidator(h.registry, h.wallet, newFakeDirectory()), cs, h.manager, zap.NewNop())

	req := request(10)
	req.Opponent = req.Proposer
	_, err := svc.Propose(context.Background(), req)
	require.ErrorIs(t, err, ErrSelfChallenge)
	require.Zero(t, cs.PendingCount())
	require.Zero(t, h.notes.count("alice", NoticeChallengeReceived))
}

func TestServiceCancelChallenge(t *testing.T) {
	h := newHarness(t)
	cs := newChallenges(h)
	svc := NewService(NewValidator(h.registry, h.wallet, newFakeDirectory()), cs, h.manager, zap.NewNop())

	c, err := svc.ProposeChallenge(context.Background(), request(0))
	require.NoError(t, err)
	require.ErrorIs(t, svc.CancelChallenge(c.ID, "bob"), ErrNotParticipant)
	require.NoError(t, svc.CancelChallenge(c.ID, "alice"))
	require.Equal(t, ChallengeCancelled, c.Status())
}

func TestChallengeAcceptWhilePairBusyCancels(t *testing.T) {
	h := newHarness(t)
	cs := newChallenges(h)
	first, second := cs.Open(request(0)), cs.Open(request(0))

	_, err := cs.Respond(context.Background(), first.ID, "bob", true)
	require.NoError(t, err)

	out, err := cs.Respond(context.Background(), second.ID, "bob", true)
	require.ErrorIs(t, err, ErrSessionInProgress)
	require.Equal(t, ChallengeCancelled, out.Status)
	require.Equal(t, 1, h.manager.ActiveCount())
}
