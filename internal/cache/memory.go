package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	token     string
	expiresAt time.Time
}

// Memory is an in-process VerificationCache used in tests and when running
// without a redis instance. Expired entries are dropped lazily on read.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
	}
}

func (m *Memory) Set(_ context.Context, email, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key(email)] = entry{
		token:     token,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

func (m *Memory) Get(_ context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key(email)]
	if !ok {
		return "", ErrCacheMiss
	}

	if time.Now().After(e.expiresAt) {
		delete(m.entries, key(email))
		return "", ErrCacheMiss
	}

	return e.token, nil
}

func (m *Memory) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key(email))
	return nil
}
