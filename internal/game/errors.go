package game

import (
	"errors"
	"fmt"

	"github.com/playmatatu/duels/internal/game/engine"
)

// Input errors, reported before any precondition is evaluated.
var (
	ErrUnknownGameKind = errors.New("unknown game kind")
	ErrInvalidStake    = errors.New("stake must not be negative")
)

// Precondition failures. They are wrapped in *PreconditionError.
var (
	ErrGameDisabled      = errors.New("game disabled")
	ErrSelfChallenge     = errors.New("cannot challenge yourself")
	ErrInvalidOpponent   = errors.New("opponent is not a human participant")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Protocol failures.
var (
	ErrUnknownChallenge     = errors.New("unknown challenge")
	ErrNotChallengeOpponent = errors.New("only the challenged player may respond")
	ErrChallengeResolved    = errors.New("challenge already resolved")
	ErrChallengeDeclined    = errors.New("challenge declined")
	ErrChallengeExpired     = errors.New("challenge expired")
	ErrChallengeCancelled   = errors.New("challenge cancelled")
)

// Move failures. The session stays playable and nothing is mutated.
var (
	ErrNotYourTurn       = errors.New("not your turn")
	ErrCellOccupied      = engine.ErrCellOccupied
	ErrColumnFull        = engine.ErrColumnFull
	ErrUnknownSession    = errors.New("unknown session")
	ErrSessionFinished   = errors.New("session already finished")
	ErrSessionInProgress = errors.New("session still in progress")
	ErrInvalidMove       = errors.New("invalid move")
	ErrNotParticipant    = errors.New("player is not in this session")
	ErrAlreadySubmitted  = errors.New("choice already submitted this round")
	ErrWrongAnswer       = errors.New("wrong answer")
	ErrLockedOut         = errors.New("locked out until the next puzzle")
)

// PreconditionError is returned by the validator. PlayerID names the
// participant the failure is about, when there is one.
type PreconditionError struct {
	Reason   error
	PlayerID string
}

func (e *PreconditionError) Error() string {
	if e.PlayerID == "" {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.PlayerID)
}

func (e *PreconditionError) Unwrap() error { return e.Reason }

func reject(reason error, playerID string) error {
	return &PreconditionError{Reason: reason, PlayerID: playerID}
}

// SettlementError means the match result is final but the wager transfer
// failed and needs reconciliation outside the core.
type SettlementError struct {
	SessionID string
	Err       error
}

func (e *SettlementError) Error() string {
	return fmt.Sprintf("settlement failed for session %s: %v", e.SessionID, e.Err)
}

func (e *SettlementError) Unwrap() error { return e.Err }

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrUnknownGameKind, "unknown_game_kind"},
	{ErrInvalidStake, "invalid_stake"},
	{ErrGameDisabled, "game_disabled"},
	{ErrSelfChallenge, "self_challenge"},
	{ErrInvalidOpponent, "invalid_opponent"},
	{ErrInsufficientFunds, "insufficient_funds"},
	{ErrUnknownChallenge, "unknown_challenge"},
	{ErrNotChallengeOpponent, "not_challenge_opponent"},
	{ErrChallengeResolved, "challenge_resolved"},
	{ErrChallengeDeclined, "challenge_declined"},
	{ErrChallengeExpired, "challenge_expired"},
	{ErrChallengeCancelled, "challenge_cancelled"},
	{ErrNotYourTurn, "not_your_turn"},
	{ErrCellOccupied, "cell_occupied"},
	{ErrColumnFull, "column_full"},
	{ErrUnknownSession, "unknown_session"},
	{ErrSessionFinished, "session_finished"},
	{ErrSessionInProgress, "session_in_progress"},
	{ErrInvalidMove, "invalid_move"},
	{ErrNotParticipant, "not_participant"},
	{ErrLockedOut, "locked_out"},
	{ErrAlreadySubmitted, "already_submitted"},
	{ErrWrongAnswer, "wrong_answer"},
}

// ErrorCode returns a stable machine-readable code for err, or "internal".
func ErrorCode(err error) string {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}
