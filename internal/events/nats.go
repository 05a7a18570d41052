package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// DefaultSubject is the NATS subject for match results.
const DefaultSubject = "duels.match.completed"

// ConnectNATS dials the server with the reconnect policy used across services.
func ConnectNATS(url string, log *zap.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("duels"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

// NATSPublisher publishes events as JSON on a subject.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

func NewNATSPublisher(nc *nats.Conn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{nc: nc, subject: subject}
}

func (p *NATSPublisher) PublishMatchCompleted(_ context.Context, ev MatchCompleted) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal match event: %w", err)
	}
	if err := p.nc.Publish(p.subject, b); err != nil {
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}
	return nil
}
