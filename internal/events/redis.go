package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel is the Redis pub/sub channel for match results.
const DefaultChannel = "match_events"

// RedisPublisher publishes events on a Redis channel as JSON envelopes.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
	log     *zap.Logger
}

func NewRedisPublisher(rdb *redis.Client, channel string, log *zap.Logger) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{rdb: rdb, channel: channel, log: log}
}

type envelope struct {
	Type string         `json:"type"`
	Data MatchCompleted `json:"data"`
}

func (p *RedisPublisher) PublishMatchCompleted(ctx context.Context, ev MatchCompleted) error {
	b, err := json.Marshal(envelope{Type: "match_completed", Data: ev})
	if err != nil {
		return fmt.Errorf("marshal match event: %w", err)
	}
	n, err := p.rdb.Publish(ctx, p.channel, b).Result()
	if err != nil {
		return fmt.Errorf("publish to %s: %w", p.channel, err)
	}
	p.log.Debug("published match event",
		zap.String("session_id", ev.SessionID),
		zap.String("channel", p.channel),
		zap.Int64("subscribers", n))
	return nil
}

// Subscribe streams decoded events until ctx is done. Malformed payloads
// are logged and skipped.
func Subscribe(ctx context.Context, rdb *redis.Client, channel string, log *zap.Logger) <-chan MatchCompleted {
	if channel == "" {
		channel = DefaultChannel
	}
	pubsub := rdb.Subscribe(ctx, channel)
	out := make(chan MatchCompleted)
	go func() {
		defer close(out)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					log.Warn("invalid match event payload", zap.Error(err))
					continue
				}
				select {
				case out <- env.Data:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}
