package game

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/playmatatu/duels/internal/events"
	"github.com/playmatatu/duels/internal/game/engine"
)

type transfer struct {
	from, to, community string
	amount              int64
}

type fakeWallet struct {
	mu        sync.Mutex
	balances  map[string]int64
	transfers []transfer
	reads     []string
	err       error
}

func newFakeWallet(balances map[string]int64) *fakeWallet {
	if balances == nil {
		balances = map[string]int64{}
	}
	return &fakeWallet{balances: balances}
}

func (w *fakeWallet) Balance(_ context.Context, userID, _ string) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reads = append(w.reads, userID)
	return w.balances[userID], nil
}

func (w *fakeWallet) Transfer(_ context.Context, from, to, community string, amount int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.transfers = append(w.transfers, transfer{from, to, community, amount})
	if w.err != nil {
		return w.err
	}
	w.balances[from] -= amount
	w.balances[to] += amount
	return nil
}

func (w *fakeWallet) transferCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.transfers)
}

type fakeRegistry struct {
	mu       sync.Mutex
	disabled map[engine.Kind]bool
	played   map[engine.Kind]int
	err      error
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{disabled: map[engine.Kind]bool{}, played: map[engine.Kind]int{}}
}

func (r *fakeRegistry) IsEnabled(_ context.Context, _ string, kind engine.Kind) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	return !r.disabled[kind], nil
}

func (r *fakeRegistry) IncrementPlayed(_ context.Context, _ string, kind engine.Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played[kind]++
	return nil
}

func (r *fakeRegistry) playedCount(kind engine.Kind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.played[kind]
}

type fakeDirectory struct {
	mu   sync.Mutex
	bots map[string]bool
	err  error
}

func newFakeDirectory(bots ...string) *fakeDirectory {
	d := &fakeDirectory{bots: map[string]bool{}}
	for _, b := range bots {
		d.bots[b] = true
	}
	return d
}

func (d *fakeDirectory) IsBot(_ context.Context, _ string, userID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return false, d.err
	}
	return d.bots[userID], nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.MatchCompleted
}

func (p *recordingPublisher) PublishMatchCompleted(_ context.Context, ev events.MatchCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) all() []events.MatchCompleted {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.MatchCompleted(nil), p.events...)
}

type sent struct {
	to string
	n  Notification
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sent
}

func (r *recordingNotifier) Notify(playerID string, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{playerID, n})
}

func (r *recordingNotifier) count(playerID, typ string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sent {
		if s.to == playerID && s.n.Type == typ {
			n++
		}
	}
	return n
}

var errWalletDown = errors.New("wallet unavailable")

type harness struct {
	wallet   *fakeWallet
	registry *fakeRegistry
	events   *recordingPublisher
	notes    *recordingNotifier
	manager  *Manager
}

func newHarness(t *testing.T, opts ...ManagerOption) *harness {
	t.Helper()
	h := &harness{
		wallet:   newFakeWallet(map[string]int64{"alice": 100, "bob": 100}),
		registry: newFakeRegistry(),
		events:   &recordingPublisher{},
		notes:    &recordingNotifier{},
	}
	base := []ManagerOption{
		WithEvents(h.events),
		WithNotifier(h.notes),
		WithRand(func() *rand.Rand { return rand.New(rand.NewPCG(7, 11)) }),
	}
	h.manager = NewManager(h.wallet, h.registry, zap.NewNop(), append(base, opts...)...)
	t.Cleanup(h.manager.Shutdown)
	return h
}

func (h *harness) start(t *testing.T, kind engine.Kind, stake int64) *Session {
	t.Helper()
	s, err := h.manager.Start(context.Background(), StartRequest{
		CommunityID: "guild",
		Players:     [2]string{"alice", "bob"},
		Kind:        kind,
		Stake:       stake,
	})
	if err != nil {
		t.Fatalf("start %s: %v", kind, err)
	}
	return s
}

// fakeClock is a settable clock for deadline checks.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (r *recordingNotifier) last(playerID, typ string) (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.sent) - 1; i >= 0; i-- {
		if r.sent[i].to == playerID && r.sent[i].n.Type == typ {
			return r.sent[i].n, true
		}
	}
	return Notification{}, false
}
