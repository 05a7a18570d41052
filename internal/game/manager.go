package game

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/events"
	"github.com/playmatatu/duels/internal/game/engine"
)

const (
	DefaultIdleTimeout       = 30 * time.Second
	DefaultMaxDuration       = 5 * time.Minute
	DefaultRetention         = 10 * time.Minute
	DefaultSettlementTimeout = 10 * time.Second
)

// StartRequest describes an accepted challenge.
type StartRequest struct {
	CommunityID string
	Players     [2]string
	Kind        engine.Kind
	Stake       int64
}

// MoveStatus is the non-error outcome of SubmitMove.
type MoveStatus string

const (
	MoveAccepted MoveStatus = "accepted"
	MoveGameOver MoveStatus = "game_over"
)

// MoveResult is returned for every accepted move. Rejections are errors.
type MoveResult struct {
	Status MoveStatus `json:"status"`
	// Pending is set when a simultaneous choice is waiting for the opponent.
	Pending bool         `json:"pending,omitempty"`
	Round   *RoundResult `json:"round,omitempty"`
	Board   any          `json:"board"`
	Turn    string       `json:"turn,omitempty"`
	Result  *MatchResult `json:"result,omitempty"`
}

// Manager owns every live session. Sessions are addressed by a generated
// handle; the player pair is only a secondary index.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	byPair   map[string]string

	wallet   Wallet
	registry Registry
	events   EventPublisher
	notifier Notifier
	log      *zap.Logger

	idleTimeout   time.Duration
	maxDuration   time.Duration
	retention     time.Duration
	settleTimeout time.Duration
	targetScore   int

	newRand func() *rand.Rand
	now     func() time.Time
}

type ManagerOption func(*Manager)

func WithIdleTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.idleTimeout = d }
}

func WithMaxDuration(d time.Duration) ManagerOption {
	return func(m *Manager) { m.maxDuration = d }
}

// WithRetention sets how long finished sessions stay queryable.
func WithRetention(d time.Duration) ManagerOption {
	return func(m *Manager) { m.retention = d }
}

func WithSettlementTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.settleTimeout = d }
}

func WithTargetScore(n int) ManagerOption {
	return func(m *Manager) { m.targetScore = n }
}

// WithRand replaces the per-session random source, e.g. with a seeded one.
func WithRand(f func() *rand.Rand) ManagerOption {
	return func(m *Manager) { m.newRand = f }
}

func WithEvents(p EventPublisher) ManagerOption {
	return func(m *Manager) { m.events = p }
}

func WithNotifier(n Notifier) ManagerOption {
	return func(m *Manager) { m.notifier = n }
}

func NewManager(wallet Wallet, registry Registry, log *zap.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions:      make(map[string]*Session),
		byPair:        make(map[string]string),
		wallet:        wallet,
		registry:      registry,
		events:        events.Discard{},
		notifier:      nopNotifier{},
		log:           log,
		idleTimeout:   DefaultIdleTimeout,
		maxDuration:   DefaultMaxDuration,
		retention:     DefaultRetention,
		settleTimeout: DefaultSettlementTimeout,
		targetScore:   engine.DefaultTargetScore,
		newRand:       seededRand,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func seededRand() *rand.Rand {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		now := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(now, now>>1))
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}

func pairKey(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "|")
}

// Start creates a session for an accepted challenge and arms its timer.
func (m *Manager) Start(ctx context.Context, req StartRequest) (*Session, error) {
	if req.Players[0] == "" || req.Players[1] == "" || req.Players[0] == req.Players[1] {
		return nil, fmt.Errorf("invalid players %v", req.Players)
	}
	b, err := newBoard(req.Kind, boardOptions{targetScore: m.targetScore, rng: m.newRand()})
	if err != nil {
		return nil, err
	}

	now := m.now()
	s := &Session{
		ID:          uuid.NewString(),
		CommunityID: req.CommunityID,
		Kind:        req.Kind,
		Players:     req.Players,
		Stake:       req.Stake,
		StartedAt:   now,
		status:      StatusInProgress,
		board:       b,
		deadline:    now.Add(m.maxDuration),
		done:        make(chan struct{}),
	}

	key := pairKey(req.Players[0], req.Players[1])
	m.mu.Lock()
	if prev, ok := m.sessions[m.byPair[key]]; ok && prev.Status() == StatusInProgress {
		m.mu.Unlock()
		return nil, fmt.Errorf("start %s: %w", req.Kind, ErrSessionInProgress)
	}
	m.sessions[s.ID] = s
	m.byPair[key] = s.ID
	m.mu.Unlock()

	s.mu.Lock()
	m.armLocked(s)
	view := s.viewLocked()
	s.mu.Unlock()

	m.log.Info("session started",
		zap.String("session_id", s.ID),
		zap.String("game", string(s.Kind)),
		zap.Strings("players", s.Players[:]),
		zap.Int64("stake", s.Stake))

	for _, p := range s.Players {
		m.notifier.Notify(p, Notification{Type: NoticeSessionStarted, SessionID: s.ID, Data: view})
	}
	return s, nil
}

// Get returns a live or recently finished session.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrUnknownSession
	}
	return s, nil
}

// ActiveBetween looks up an in-progress session by its two players.
func (m *Manager) ActiveBetween(a, b string) (*Session, bool) {
	m.mu.RLock()
	id, ok := m.byPair[pairKey(a, b)]
	s := m.sessions[id]
	m.mu.RUnlock()
	if !ok || s == nil || s.Status() != StatusInProgress {
		return nil, false
	}
	return s, true
}

// ActiveCount returns the number of sessions still in progress.
func (m *Manager) ActiveCount() int {
	return len(m.active())
}

func (m *Manager) active() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Session
	for _, s := range m.sessions {
		if s.Status() == StatusInProgress {
			out = append(out, s)
		}
	}
	return out
}

// SubmitMove validates and applies a move. A move racing the session
// timeout is either applied first or rejected with ErrSessionFinished.
func (m *Manager) SubmitMove(ctx context.Context, sessionID, playerID, move string) (MoveResult, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return MoveResult{}, err
	}

	s.mu.Lock()
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return MoveResult{}, ErrSessionFinished
	}
	seat := s.seat(playerID)
	if seat < 0 {
		s.mu.Unlock()
		return MoveResult{}, ErrNotParticipant
	}
	if t := s.board.turn(); t >= 0 && t != seat {
		s.mu.Unlock()
		return MoveResult{}, ErrNotYourTurn
	}
	step, err := s.board.apply(seat, move)
	if err != nil {
		s.mu.Unlock()
		return MoveResult{}, err
	}

	res := MoveResult{Status: MoveAccepted, Pending: step.pending}
	if step.resolved != nil {
		res.Round = s.roundResult(step.resolved)
	}
	finished := step.outcome.Done()
	if finished {
		s.finishLocked(step.outcome, m.now())
	} else {
		m.armLocked(s)
	}
	res.Board = s.board.view()
	res.Turn = s.turnLocked()
	s.mu.Unlock()

	if res.Round != nil {
		for _, p := range s.Players {
			m.notifier.Notify(p, Notification{Type: NoticeRoundResolved, SessionID: s.ID, Data: res})
		}
	} else {
		m.notifier.Notify(s.Opponent(playerID), Notification{Type: NoticeMoveMade, SessionID: s.ID, Data: res})
	}

	if finished {
		m.release(s)
		r := m.settle(ctx, s)
		res.Status = MoveGameOver
		res.Result = &r
	}
	return res, nil
}

// Result returns the final result of a session. It never triggers
// settlement again.
func (m *Manager) Result(sessionID string) (MatchResult, error) {
	s, err := m.Get(sessionID)
	if err != nil {
		return MatchResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return MatchResult{}, ErrSessionInProgress
	}
	return *s.result, nil
}

// Cancel stops an in-progress session without a winner.
func (m *Manager) Cancel(sessionID, reason string) error {
	s, err := m.Get(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return ErrSessionFinished
	}
	s.cancelLocked(reason, m.now())
	s.mu.Unlock()
	m.cancelled(s, reason)
	return nil
}

// Shutdown cancels every session still in progress.
func (m *Manager) Shutdown() {
	for _, s := range m.active() {
		if err := m.Cancel(s.ID, "shutdown"); err != nil && !errors.Is(err, ErrSessionFinished) {
			m.log.Warn("cancel on shutdown", zap.String("session_id", s.ID), zap.Error(err))
		}
	}
}

// armLocked (re)starts the inactivity timer, bounded by the session's hard
// deadline. Firings from earlier arms are discarded through gen.
func (m *Manager) armLocked(s *Session) {
	s.gen++
	gen := s.gen
	wait := m.idleTimeout
	if rem := s.deadline.Sub(m.now()); rem < wait {
		wait = rem
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(wait, func() { m.expire(s, gen) })
}

func (m *Manager) expire(s *Session, gen uint64) {
	s.mu.Lock()
	if s.gen != gen || s.status != StatusInProgress {
		s.mu.Unlock()
		return
	}
	s.cancelLocked("timeout", m.now())
	s.mu.Unlock()
	m.cancelled(s, "timeout")
}

func (m *Manager) cancelled(s *Session, reason string) {
	m.log.Info("session cancelled", zap.String("session_id", s.ID), zap.String("reason", reason))
	m.release(s)
	m.scheduleEviction(s)
	r, _ := m.Result(s.ID)
	for _, p := range s.Players {
		m.notifier.Notify(p, Notification{Type: NoticeSessionCancelled, SessionID: s.ID, Data: r})
	}
}

// release drops the pair index entry once the session is no longer active.
func (m *Manager) release(s *Session) {
	key := pairKey(s.Players[0], s.Players[1])
	m.mu.Lock()
	if m.byPair[key] == s.ID {
		delete(m.byPair, key)
	}
	m.mu.Unlock()
}

func (m *Manager) scheduleEviction(s *Session) {
	time.AfterFunc(m.retention, func() {
		m.mu.Lock()
		delete(m.sessions, s.ID)
		m.mu.Unlock()
	})
}

// settle runs once per finished session: transfer the stake from loser to
// winner, bump the played counter, then publish the result. A failed
// transfer is recorded on the result; the outcome itself stands.
func (m *Manager) settle(ctx context.Context, s *Session) MatchResult {
	s.settleOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.settleTimeout)
		defer cancel()

		s.mu.Lock()
		r := *s.result
		s.mu.Unlock()

		log := m.log.With(zap.String("session_id", s.ID), zap.String("game", string(s.Kind)))

		var settleErr error
		if !r.Draw && r.Stake > 0 {
			if err := m.wallet.Transfer(ctx, r.LoserID, r.WinnerID, r.CommunityID, r.Stake); err != nil {
				settleErr = &SettlementError{SessionID: s.ID, Err: err}
				log.Error("stake transfer failed", zap.Error(err),
					zap.String("winner_id", r.WinnerID), zap.String("loser_id", r.LoserID), zap.Int64("stake", r.Stake))
			}
		}
		if err := m.registry.IncrementPlayed(ctx, r.CommunityID, r.Kind); err != nil {
			log.Warn("increment played counter failed", zap.Error(err))
		}

		s.mu.Lock()
		s.result.Settled = settleErr == nil
		s.result.settleErr = settleErr
		if settleErr != nil {
			s.result.SettlementError = settleErr.Error()
		}
		r = *s.result
		s.mu.Unlock()

		ev := events.MatchCompleted{
			SessionID:        r.SessionID,
			CommunityID:      r.CommunityID,
			Kind:             r.Kind,
			WinnerID:         r.WinnerID,
			LoserID:          r.LoserID,
			Draw:             r.Draw,
			Stake:            r.Stake,
			SettlementFailed: settleErr != nil,
			FinishedAt:       r.FinishedAt,
		}
		if err := m.events.PublishMatchCompleted(ctx, ev); err != nil {
			log.Warn("publish match completed failed", zap.Error(err))
		}

		log.Info("session finished",
			zap.String("winner_id", r.WinnerID),
			zap.Bool("draw", r.Draw),
			zap.Bool("settled", r.Settled))

		for _, p := range s.Players {
			m.notifier.Notify(p, Notification{Type: NoticeGameOver, SessionID: s.ID, Data: r})
		}
		m.scheduleEviction(s)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.result
}
