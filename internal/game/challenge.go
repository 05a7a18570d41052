package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/game/engine"
)

// DefaultChallengeTimeout is how long an opponent has to answer.
const DefaultChallengeTimeout = 30 * time.Second

// SessionStarter turns an accepted challenge into a running session.
type SessionStarter interface {
	Start(ctx context.Context, req StartRequest) (*Session, error)
}

// ChallengeOutcome is the terminal result handed back to both sides.
type ChallengeOutcome struct {
	ChallengeID string          `json:"challenge_id"`
	Status      ChallengeStatus `json:"status"`
	SessionID   string          `json:"session_id,omitempty"`
}

// Err maps a non-accepted outcome to its protocol error.
func (o ChallengeOutcome) Err() error {
	switch o.Status {
	case ChallengeAccepted:
		return nil
	case ChallengeDeclined:
		return ErrChallengeDeclined
	case ChallengeExpired:
		return ErrChallengeExpired
	case ChallengeCancelled:
		return ErrChallengeCancelled
	}
	return nil
}

// Challenge is a pending match proposal. It is never persisted.
type Challenge struct {
	ID          string
	CommunityID string
	Proposer    Participant
	Opponent    Participant
	Request     ChallengeRequest
	CreatedAt   time.Time
	ExpiresAt   time.Time

	mu        sync.Mutex
	status    ChallengeStatus
	sessionID string
	timer     *time.Timer
	done      chan struct{}
}

// Done is closed on the single terminal transition.
func (c *Challenge) Done() <-chan struct{} { return c.done }

func (c *Challenge) Status() ChallengeStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Challenge) Outcome() ChallengeOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcomeLocked()
}

// ChallengeView is a snapshot for callers outside the package.
type ChallengeView struct {
	ID          string          `json:"id"`
	CommunityID string          `json:"community_id"`
	ProposerID  string          `json:"proposer_id"`
	OpponentID  string          `json:"opponent_id"`
	Kind        engine.Kind     `json:"game"`
	Stake       int64           `json:"stake"`
	Status      ChallengeStatus `json:"status"`
	SessionID   string          `json:"session_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

func (c *Challenge) View() ChallengeView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ChallengeView{
		ID:          c.ID,
		CommunityID: c.CommunityID,
		ProposerID:  c.Proposer.ID,
		OpponentID:  c.Opponent.ID,
		Kind:        c.Request.Kind,
		Stake:       c.Request.Stake,
		Status:      c.status,
		SessionID:   c.sessionID,
		CreatedAt:   c.CreatedAt,
		ExpiresAt:   c.ExpiresAt,
	}
}

func (c *Challenge) outcomeLocked() ChallengeOutcome {
	return ChallengeOutcome{ChallengeID: c.ID, Status: c.status, SessionID: c.sessionID}
}

// Challenges holds every pending challenge and drives their timers.
type Challenges struct {
	mu      sync.Mutex
	pending map[string]*Challenge

	starter  SessionStarter
	notifier Notifier
	log      *zap.Logger
	timeout  time.Duration
	now      func() time.Time
}

type ChallengeOption func(*Challenges)

func WithChallengeTimeout(d time.Duration) ChallengeOption {
	return func(cs *Challenges) { cs.timeout = d }
}

// WithClock replaces time.Now when deciding whether a response came too late.
func WithClock(now func() time.Time) ChallengeOption {
	return func(cs *Challenges) { cs.now = now }
}

func WithChallengeNotifier(n Notifier) ChallengeOption {
	return func(cs *Challenges) { cs.notifier = n }
}

func NewChallenges(starter SessionStarter, log *zap.Logger, opts ...ChallengeOption) *Challenges {
	cs := &Challenges{
		pending:  make(map[string]*Challenge),
		starter:  starter,
		notifier: nopNotifier{},
		log:      log,
		timeout:  DefaultChallengeTimeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(cs)
	}
	return cs
}

// Open registers a pending challenge and starts its expiry timer. The
// request is expected to have passed the validator.
func (cs *Challenges) Open(req ChallengeRequest) *Challenge {
	now := cs.now()
	c := &Challenge{
		ID:          uuid.NewString(),
		CommunityID: req.CommunityID,
		Proposer:    req.Proposer,
		Opponent:    req.Opponent,
		Request:     req,
		CreatedAt:   now,
		ExpiresAt:   now.Add(cs.timeout),
		status:      ChallengePending,
		done:        make(chan struct{}),
	}

	cs.mu.Lock()
	cs.pending[c.ID] = c
	cs.mu.Unlock()

	c.mu.Lock()
	c.timer = time.AfterFunc(cs.timeout, func() { cs.expire(c) })
	c.mu.Unlock()

	cs.log.Info("challenge opened",
		zap.String("challenge_id", c.ID),
		zap.String("proposer", c.Proposer.ID),
		zap.String("opponent", c.Opponent.ID),
		zap.String("game", string(req.Kind)),
		zap.Int64("stake", req.Stake))

	cs.notifier.Notify(c.Opponent.ID, Notification{Type: NoticeChallengeReceived, ChallengeID: c.ID, Data: c.View()})
	return c
}

// Get returns a pending challenge.
func (cs *Challenges) Get(id string) (*Challenge, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	c, ok := cs.pending[id]
	if !ok {
		return nil, ErrUnknownChallenge
	}
	return c, nil
}

// PendingCount returns the number of unresolved challenges.
func (cs *Challenges) PendingCount() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.pending)
}

// Respond applies the opponent's decision. Anyone else is rejected with no
// side effect. A response at or after the deadline expires the challenge
// instead, so a late accept can never win the race against the timer.
func (cs *Challenges) Respond(ctx context.Context, id, playerID string, accept bool) (ChallengeOutcome, error) {
	c, err := cs.Get(id)
	if err != nil {
		return ChallengeOutcome{}, err
	}
	if playerID != c.Opponent.ID {
		return ChallengeOutcome{}, ErrNotChallengeOpponent
	}

	c.mu.Lock()
	if c.status.Terminal() {
		out := c.outcomeLocked()
		c.mu.Unlock()
		return out, ErrChallengeResolved
	}
	if !cs.now().Before(c.ExpiresAt) {
		cs.resolveLocked(c, ChallengeExpired, "")
		out := c.outcomeLocked()
		c.mu.Unlock()
		cs.announce(c, out)
		return out, ErrChallengeExpired
	}
	if !accept {
		cs.resolveLocked(c, ChallengeDeclined, "")
		out := c.outcomeLocked()
		c.mu.Unlock()
		cs.announce(c, out)
		return out, nil
	}

	s, err := cs.starter.Start(ctx, StartRequest{
		CommunityID: c.CommunityID,
		Players:     [2]string{c.Proposer.ID, c.Opponent.ID},
		Kind:        c.Request.Kind,
		Stake:       c.Request.Stake,
	})
	if err != nil {
		cs.resolveLocked(c, ChallengeCancelled, "")
		out := c.outcomeLocked()
		c.mu.Unlock()
		cs.announce(c, out)
		return out, fmt.Errorf("start session: %w", err)
	}
	cs.resolveLocked(c, ChallengeAccepted, s.ID)
	out := c.outcomeLocked()
	c.mu.Unlock()
	cs.announce(c, out)
	return out, nil
}

// Cancel withdraws a pending challenge. It reports whether this call made
// the transition.
func (cs *Challenges) Cancel(id string) bool {
	c, err := cs.Get(id)
	if err != nil {
		return false
	}
	c.mu.Lock()
	if c.status.Terminal() {
		c.mu.Unlock()
		return false
	}
	cs.resolveLocked(c, ChallengeCancelled, "")
	out := c.outcomeLocked()
	c.mu.Unlock()
	cs.announce(c, out)
	return true
}

// Wait blocks until the challenge resolves. If ctx ends first the challenge
// is cancelled on a best-effort basis; an accept that won the race is still
// reported as accepted.
func (cs *Challenges) Wait(ctx context.Context, c *Challenge) ChallengeOutcome {
	select {
	case <-c.Done():
	case <-ctx.Done():
		cs.Cancel(c.ID)
		<-c.Done()
	}
	return c.Outcome()
}

func (cs *Challenges) expire(c *Challenge) {
	c.mu.Lock()
	if c.status.Terminal() {
		c.mu.Unlock()
		return
	}
	cs.resolveLocked(c, ChallengeExpired, "")
	out := c.outcomeLocked()
	c.mu.Unlock()
	cs.announce(c, out)
}

// resolveLocked performs the single terminal transition. c.mu must be held.
func (cs *Challenges) resolveLocked(c *Challenge, status ChallengeStatus, sessionID string) {
	c.status = status
	c.sessionID = sessionID
	if c.timer != nil {
		c.timer.Stop()
	}
	close(c.done)

	cs.mu.Lock()
	delete(cs.pending, c.ID)
	cs.mu.Unlock()
}

func (cs *Challenges) announce(c *Challenge, out ChallengeOutcome) {
	cs.log.Info("challenge resolved",
		zap.String("challenge_id", c.ID),
		zap.String("status", string(out.Status)),
		zap.String("session_id", out.SessionID))
	n := Notification{Type: NoticeChallengeResolved, ChallengeID: c.ID, Data: out}
	cs.notifier.Notify(c.Proposer.ID, n)
	cs.notifier.Notify(c.Opponent.ID, n)
}
