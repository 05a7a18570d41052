package registry

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/game/engine"
)

// RedisStore keeps two hashes per community, both keyed by game kind:
// games:{community}:enabled ("1"/"0") and games:{community}:played.
// Bot accounts live in the set games:{community}:bots.
type RedisStore struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisStore(rdb *redis.Client, log *zap.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, log: log}
}

func enabledKey(communityID string) string { return fmt.Sprintf("games:%s:enabled", communityID) }
func playedKey(communityID string) string  { return fmt.Sprintf("games:%s:played", communityID) }
func botsKey(communityID string) string    { return fmt.Sprintf("games:%s:bots", communityID) }

func (s *RedisStore) IsEnabled(ctx context.Context, communityID string, kind engine.Kind) (bool, error) {
	v, err := s.rdb.HGet(ctx, enabledKey(communityID), string(kind)).Result()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("hget %s: %w", enabledKey(communityID), err)
	}
	return v != "0", nil
}

func (s *RedisStore) SetEnabled(ctx context.Context, communityID string, kind engine.Kind, enabled bool) error {
	v := "0"
	if enabled {
		v = "1"
	}
	if err := s.rdb.HSet(ctx, enabledKey(communityID), string(kind), v).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", enabledKey(communityID), err)
	}
	s.log.Info("game toggled",
		zap.String("community_id", communityID),
		zap.String("game", string(kind)),
		zap.Bool("enabled", enabled))
	return nil
}

// IncrementPlayed relies on HINCRBY so concurrent sessions never lose a count.
func (s *RedisStore) IncrementPlayed(ctx context.Context, communityID string, kind engine.Kind) error {
	if err := s.rdb.HIncrBy(ctx, playedKey(communityID), string(kind), 1).Err(); err != nil {
		return fmt.Errorf("hincrby %s: %w", playedKey(communityID), err)
	}
	return nil
}

func (s *RedisStore) Counts(ctx context.Context, communityID string) (map[engine.Kind]int64, error) {
	raw, err := s.rdb.HGetAll(ctx, playedKey(communityID)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", playedKey(communityID), err)
	}
	out := make(map[engine.Kind]int64, len(raw))
	for field, v := range raw {
		kind, err := engine.ParseKind(field)
		if err != nil {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.log.Warn("bad played counter", zap.String("key", playedKey(communityID)), zap.String("field", field))
			continue
		}
		out[kind] = n
	}
	return out, nil
}

func (s *RedisStore) EnabledFlags(ctx context.Context, communityID string) (map[engine.Kind]bool, error) {
	raw, err := s.rdb.HGetAll(ctx, enabledKey(communityID)).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", enabledKey(communityID), err)
	}
	out := make(map[engine.Kind]bool, len(raw))
	for field, v := range raw {
		if kind, err := engine.ParseKind(field); err == nil {
			out[kind] = v != "0"
		}
	}
	return out, nil
}

func (s *RedisStore) IsBot(ctx context.Context, communityID, userID string) (bool, error) {
	ok, err := s.rdb.SIsMember(ctx, botsKey(communityID), userID).Result()
	if err != nil {
		return false, fmt.Errorf("sismember %s: %w", botsKey(communityID), err)
	}
	return ok, nil
}

func (s *RedisStore) SetBot(ctx context.Context, communityID, userID string, bot bool) error {
	var err error
	if bot {
		err = s.rdb.SAdd(ctx, botsKey(communityID), userID).Err()
	} else {
		err = s.rdb.SRem(ctx, botsKey(communityID), userID).Err()
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", botsKey(communityID), err)
	}
	s.log.Info("bot flag set",
		zap.String("community_id", communityID),
		zap.String("user_id", userID),
		zap.Bool("bot", bot))
	return nil
}

func (s *RedisStore) Bots(ctx context.Context, communityID string) ([]string, error) {
	ids, err := s.rdb.SMembers(ctx, botsKey(communityID)).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", botsKey(communityID), err)
	}
	slices.Sort(ids)
	return ids, nil
}
