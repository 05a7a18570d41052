package events

import (
	"context"

	"go.uber.org/zap"
)

// Local delivers events to an in-process channel. It stands in for the
// Redis stream when the server runs without Redis. Events are dropped when
// the buffer is full.
type Local struct {
	ch  chan MatchCompleted
	log *zap.Logger
}

func NewLocal(buffer int, log *zap.Logger) *Local {
	return &Local{ch: make(chan MatchCompleted, buffer), log: log}
}

func (l *Local) PublishMatchCompleted(_ context.Context, ev MatchCompleted) error {
	select {
	case l.ch <- ev:
	default:
		l.log.Warn("local match event dropped", zap.String("session_id", ev.SessionID))
	}
	return nil
}

// Events is the receive side.
func (l *Local) Events() <-chan MatchCompleted { return l.ch }
