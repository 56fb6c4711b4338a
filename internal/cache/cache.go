// Package cache stores raw BGG responses keyed by request URL.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is a response cache. Get reports a miss with ok == false; expired
// entries are misses.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// None never stores anything.
type None struct{}

func (None) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (None) Set(context.Context, string, string) error { return nil }

type entry struct {
	value   string
	expires time.Time
}

// Memory is an in-process cache with a fixed time to live.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates a Memory cache. A non-positive ttl keeps entries forever.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	e := entry{value: value}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

var (
	_ Cache = None{}
	_ Cache = (*Memory)(nil)
)
