package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/game/engine"
)

type failing struct{ err error }

func (f failing) PublishMatchCompleted(context.Context, MatchCompleted) error { return f.err }

func TestFanoutJoinsErrors(t *testing.T) {
	local := NewLocal(1, zap.NewNop())
	boom := errors.New("boom")
	f := Fanout{local, nil, failing{boom}, Discard{}}

	err := f.PublishMatchCompleted(context.Background(), MatchCompleted{SessionID: "s-1"})
	require.ErrorIs(t, err, boom)
	require.Equal(t, "s-1", (<-local.Events()).SessionID)
}

func TestLocalDropsWhenFull(t *testing.T) {
	local := NewLocal(1, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, local.PublishMatchCompleted(ctx, MatchCompleted{SessionID: "a"}))
	require.NoError(t, local.PublishMatchCompleted(ctx, MatchCompleted{SessionID: "b"}))
	require.Equal(t, "a", (<-local.Events()).SessionID)
	require.Empty(t, local.Events())
}

func TestRedisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stream := Subscribe(ctx, rdb, "", zap.NewNop())
	require.Eventually(t, func() bool {
		return len(mr.PubSubChannels("")) == 1
	}, time.Second, 5*time.Millisecond)

	mr.Publish(DefaultChannel, "not json")
	pub := NewRedisPublisher(rdb, "", zap.NewNop())
	want := MatchCompleted{SessionID: "s-2", CommunityID: "guild", Kind: engine.KindRelay, WinnerID: "alice", Stake: 10}
	require.NoError(t, pub.PublishMatchCompleted(ctx, want))

	select {
	case got := <-stream:
		require.Equal(t, want.SessionID, got.SessionID)
		require.Equal(t, engine.KindRelay, got.Kind)
		require.Equal(t, "alice", got.WinnerID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-stream
		return !open
	}, time.Second, 5*time.Millisecond)
}
