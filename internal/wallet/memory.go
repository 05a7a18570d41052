package wallet

import (
	"context"
	"fmt"
	"sync"
)

type walletKey struct{ user, community string }

// Memory is an in-process wallet for development and tests.
type Memory struct {
	mu       sync.Mutex
	balances map[walletKey]int64
}

func NewMemory() *Memory {
	return &Memory{balances: make(map[walletKey]int64)}
}

func (m *Memory) Balance(_ context.Context, userID, communityID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[walletKey{userID, communityID}], nil
}

func (m *Memory) Transfer(_ context.Context, fromUserID, toUserID, communityID string, amount int64) error {
	if err := checkTransfer(fromUserID, toUserID, amount); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	from := walletKey{fromUserID, communityID}
	if m.balances[from] < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, fromUserID, m.balances[from], amount)
	}
	m.balances[from] -= amount
	m.balances[walletKey{toUserID, communityID}] += amount
	return nil
}

func (m *Memory) Credit(_ context.Context, userID, communityID string, amount int64, _ string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := walletKey{userID, communityID}
	m.balances[k] += amount
	return m.balances[k], nil
}
