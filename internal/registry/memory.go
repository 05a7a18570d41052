package registry

import (
	"context"
	"slices"
	"sync"

	"github.com/playmatatu/duels/internal/game/engine"
)

type communityKey struct {
	community string
	kind      engine.Kind
}

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	enabled map[communityKey]bool
	played  map[communityKey]int64
	bots    map[string]map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		enabled: make(map[communityKey]bool),
		played:  make(map[communityKey]int64),
		bots:    make(map[string]map[string]bool),
	}
}

func (s *MemoryStore) IsEnabled(_ context.Context, communityID string, kind engine.Kind) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.enabled[communityKey{communityID, kind}]
	return v || !ok, nil
}

func (s *MemoryStore) SetEnabled(_ context.Context, communityID string, kind engine.Kind, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled[communityKey{communityID, kind}] = enabled
	return nil
}

func (s *MemoryStore) IncrementPlayed(_ context.Context, communityID string, kind engine.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played[communityKey{communityID, kind}]++
	return nil
}

func (s *MemoryStore) Counts(_ context.Context, communityID string) (map[engine.Kind]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[engine.Kind]int64)
	for k, n := range s.played {
		if k.community == communityID {
			out[k.kind] = n
		}
	}
	return out, nil
}

func (s *MemoryStore) EnabledFlags(_ context.Context, communityID string) (map[engine.Kind]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[engine.Kind]bool)
	for k, v := range s.enabled {
		if k.community == communityID {
			out[k.kind] = v
		}
	}
	return out, nil
}

func (s *MemoryStore) IsBot(_ context.Context, communityID, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bots[communityID][userID], nil
}

func (s *MemoryStore) SetBot(_ context.Context, communityID, userID string, bot bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !bot {
		delete(s.bots[communityID], userID)
		return nil
	}
	if s.bots[communityID] == nil {
		s.bots[communityID] = make(map[string]bool)
	}
	s.bots[communityID][userID] = true
	return nil
}

func (s *MemoryStore) Bots(_ context.Context, communityID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.bots[communityID]))
	for id := range s.bots[communityID] {
		out = append(out, id)
	}
	slices.Sort(out)
	return out, nil
}
