package testutil

import (
	"context"
	"sync"
	"time"
)

// MemorySessions is an in-process stand-in for the Redis revocation store.
type MemorySessions struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{revoked: map[string]time.Time{}}
}

func (m *MemorySessions) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (m *MemorySessions) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.revoked[tokenID]
	return ok && time.Now().Before(until), nil
}

func (m *MemorySessions) Ping(context.Context) error {
	return nil
}
