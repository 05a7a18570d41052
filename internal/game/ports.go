package game

import (
	"context"

	"github.com/playmatatu/duels/internal/events"
	"github.com/playmatatu/duels/internal/game/engine"
)

// Registry is the slice of the game registry the core reads and bumps.
type Registry interface {
	IsEnabled(ctx context.Context, communityID string, kind engine.Kind) (bool, error)
	IncrementPlayed(ctx context.Context, communityID string, kind engine.Kind) error
}

// Directory knows which community members are automated accounts.
type Directory interface {
	IsBot(ctx context.Context, communityID, userID string) (bool, error)
}

// Wallet is the only component allowed to change a balance.
type Wallet interface {
	Balance(ctx context.Context, userID, communityID string) (int64, error)
	Transfer(ctx context.Context, fromUserID, toUserID, communityID string, amount int64) error
}

// EventPublisher receives one event per finished session.
type EventPublisher interface {
	PublishMatchCompleted(ctx context.Context, ev events.MatchCompleted) error
}

// Notification types pushed to players.
const (
	NoticeChallengeReceived = "challenge_received"
	NoticeChallengeResolved = "challenge_resolved"
	NoticeSessionStarted    = "session_started"
	NoticeMoveMade          = "move_made"
	NoticeRoundResolved     = "round_resolved"
	NoticeGameOver          = "game_over"
	NoticeSessionCancelled  = "session_cancelled"
)

// Notification is an asynchronous update for a single player.
type Notification struct {
	Type        string `json:"type"`
	ChallengeID string `json:"challenge_id,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	Data        any    `json:"data,omitempty"`
}

// Notifier delivers notifications to a player. Implementations must not
// block and must not call back into the game package.
type Notifier interface {
	Notify(playerID string, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(playerID string, n Notification)

func (f NotifierFunc) Notify(playerID string, n Notification) { f(playerID, n) }

type nopNotifier struct{}

func (nopNotifier) Notify(string, Notification) {}
