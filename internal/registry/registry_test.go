package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/game/engine"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return map[string]Store{
		"redis":  NewRedisStore(rdb, zap.NewNop()),
		"memory": NewMemoryStore(),
	}
}

func TestStoreToggle(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			on, err := s.IsEnabled(ctx, "guild", engine.KindGravity)
			require.NoError(t, err)
			require.True(t, on, "kinds default to enabled")

			require.NoError(t, s.SetEnabled(ctx, "guild", engine.KindGravity, false))
			on, err = s.IsEnabled(ctx, "guild", engine.KindGravity)
			require.NoError(t, err)
			require.False(t, on)

			on, err = s.IsEnabled(ctx, "other", engine.KindGravity)
			require.NoError(t, err)
			require.True(t, on)

			require.NoError(t, s.SetEnabled(ctx, "guild", engine.KindGravity, true))
			on, _ = s.IsEnabled(ctx, "guild", engine.KindGravity)
			require.True(t, on)
		})
	}
}

func TestStoreConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for range 50 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := s.IncrementPlayed(ctx, "guild", engine.KindChooser); err != nil {
						t.Error(err)
					}
				}()
			}
			wg.Wait()
			require.NoError(t, s.IncrementPlayed(ctx, "guild", engine.KindRelay))

			counts, err := s.Counts(ctx, "guild")
			require.NoError(t, err)
			require.Equal(t, map[engine.Kind]int64{engine.KindChooser: 50, engine.KindRelay: 1}, counts)
		})
	}
}

func TestStoreBots(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			bot, err := s.IsBot(ctx, "guild", "helper")
			require.NoError(t, err)
			require.False(t, bot)

			require.NoError(t, s.SetBot(ctx, "guild", "helper", true))
			require.NoError(t, s.SetBot(ctx, "guild", "announcer", true))

			bot, err = s.IsBot(ctx, "guild", "helper")
			require.NoError(t, err)
			require.True(t, bot)

			bot, _ = s.IsBot(ctx, "other", "helper")
			require.False(t, bot, "bot flags are per community")

			ids, err := s.Bots(ctx, "guild")
			require.NoError(t, err)
			require.Equal(t, []string{"announcer", "helper"}, ids)

			require.NoError(t, s.SetBot(ctx, "guild", "helper", false))
			bot, _ = s.IsBot(ctx, "guild", "helper")
			require.False(t, bot)

			ids, err = s.Bots(ctx, "other")
			require.NoError(t, err)
			require.Empty(t, ids)
		})
	}
}

func TestConfigsListsEveryKind(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SetEnabled(ctx, "guild", engine.KindAlignment, false))
			require.NoError(t, s.IncrementPlayed(ctx, "guild", engine.KindAlignment))

			cfgs, err := Configs(ctx, s, "guild")
			require.NoError(t, err)
			require.Len(t, cfgs, len(engine.Kinds))
			for i, c := range cfgs {
				require.Equal(t, string(engine.Kinds[i]), c.GameKind)
				require.Equal(t, c.GameKind != string(engine.KindAlignment), c.Enabled)
			}
			require.Equal(t, int64(1), cfgs[1].TotalPlayed)
		})
	}
}

func TestRedisLayout(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	s := NewRedisStore(rdb, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.SetEnabled(ctx, "g1", engine.KindRelay, false))
	require.NoError(t, s.IncrementPlayed(ctx, "g1", engine.KindRelay))

	require.Equal(t, "0", mr.HGet("games:g1:enabled", "tugofwar"))
	require.Equal(t, "1", mr.HGet("games:g1:played", "tugofwar"))

	require.NoError(t, s.SetBot(ctx, "g1", "helper", true))
	ok, err := mr.SIsMember("games:g1:bots", "helper")
	require.NoError(t, err)
	require.True(t, ok)

	mr.HSet("games:g1:played", "chess", "9")
	counts, err := s.Counts(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, counts, 1)
}
