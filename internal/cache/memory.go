package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Memory is the in-process backend: a map with per-entry expiry, no size
// bound, entries dropped lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock lets tests drive expiry deterministically.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return "", false
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	m.entries[key] = entry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}
