package game

import (
	"sync"
	"time"

	"github.com/playmatatu/duels/internal/game/engine"
)

// MatchResult is the final, immutable outcome of a session. Settlement
// fields are filled in once the wager has been processed.
type MatchResult struct {
	SessionID       string        `json:"session_id"`
	CommunityID     string        `json:"community_id"`
	Kind            engine.Kind   `json:"game"`
	Status          SessionStatus `json:"status"`
	WinnerID        string        `json:"winner_id,omitempty"`
	LoserID         string        `json:"loser_id,omitempty"`
	Draw            bool          `json:"draw"`
	Stake           int64         `json:"stake"`
	Settled         bool          `json:"settled"`
	SettlementError string        `json:"settlement_error,omitempty"`
	Reason          string        `json:"reason,omitempty"`
	FinishedAt      time.Time     `json:"finished_at"`

	settleErr error
}

// SettlementErr returns the *SettlementError if the wager transfer failed.
func (r MatchResult) SettlementErr() error { return r.settleErr }

// RoundResult describes a closed round in a multi-round game.
type RoundResult struct {
	Number   int               `json:"number"`
	WinnerID string            `json:"winner_id,omitempty"`
	Draw     bool              `json:"draw"`
	Choices  map[string]string `json:"choices,omitempty"`
}

// SessionView is a consistent snapshot of a session for callers.
type SessionView struct {
	ID          string        `json:"id"`
	CommunityID string        `json:"community_id"`
	Kind        engine.Kind   `json:"game"`
	Players     [2]string     `json:"players"`
	Stake       int64         `json:"stake"`
	Status      SessionStatus `json:"status"`
	Turn        string        `json:"turn,omitempty"`
	Round       int           `json:"round"`
	Board       any           `json:"board"`
	StartedAt   time.Time     `json:"started_at"`
	Result      *MatchResult  `json:"result,omitempty"`
}

// Session is one match. All state after construction is guarded by mu,
// which is the only lock on the move path.
type Session struct {
	ID          string
	CommunityID string
	Kind        engine.Kind
	Players     [2]string
	Stake       int64
	StartedAt   time.Time

	mu       sync.Mutex
	status   SessionStatus
	board    board
	result   *MatchResult
	timer    *time.Timer
	gen      uint64
	deadline time.Time

	settleOnce sync.Once
	done       chan struct{}
}

// Done is closed when the session leaves IN_PROGRESS.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() SessionView {
	v := SessionView{
		ID:          s.ID,
		CommunityID: s.CommunityID,
		Kind:        s.Kind,
		Players:     s.Players,
		Stake:       s.Stake,
		Status:      s.status,
		Turn:        s.turnLocked(),
		Round:       s.board.round(),
		Board:       s.board.view(),
		StartedAt:   s.StartedAt,
	}
	if s.result != nil {
		r := *s.result
		v.Result = &r
	}
	return v
}

// Opponent returns the other player's id, or "" for a stranger.
func (s *Session) Opponent(playerID string) string {
	switch playerID {
	case s.Players[0]:
		return s.Players[1]
	case s.Players[1]:
		return s.Players[0]
	}
	return ""
}

func (s *Session) seat(playerID string) int {
	for i, p := range s.Players {
		if p == playerID {
			return i
		}
	}
	return -1
}

func (s *Session) turnLocked() string {
	if s.status != StatusInProgress {
		return ""
	}
	if t := s.board.turn(); t >= 0 {
		return s.Players[t]
	}
	return ""
}

// closeLocked moves the session to a terminal state exactly once.
func (s *Session) closeLocked(r MatchResult) {
	s.status = r.Status
	s.result = &r
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}
	close(s.done)
}

func (s *Session) finishLocked(out engine.Outcome, now time.Time) {
	r := MatchResult{
		SessionID:   s.ID,
		CommunityID: s.CommunityID,
		Kind:        s.Kind,
		Status:      StatusFinished,
		Stake:       s.Stake,
		FinishedAt:  now,
	}
	if out.Verdict == engine.Win {
		w := markSeat(out.Winner)
		r.WinnerID, r.LoserID = s.Players[w], s.Players[1-w]
	} else {
		r.Draw = true
	}
	s.closeLocked(r)
}

func (s *Session) cancelLocked(reason string, now time.Time) {
	s.closeLocked(MatchResult{
		SessionID:   s.ID,
		CommunityID: s.CommunityID,
		Kind:        s.Kind,
		Status:      StatusCancelled,
		Stake:       s.Stake,
		Reason:      reason,
		FinishedAt:  now,
	})
}

func (s *Session) roundResult(ev *roundEvent) *RoundResult {
	rr := &RoundResult{Number: ev.number}
	if seat := markSeat(ev.winner); seat >= 0 {
		rr.WinnerID = s.Players[seat]
	} else {
		rr.Draw = true
	}
	if ev.choices[0] != "" {
		rr.Choices = map[string]string{s.Players[0]: ev.choices[0], s.Players[1]: ev.choices[1]}
	}
	return rr
}
