package kv

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   string
	expires time.Time
}

// Memory is an in-process Store. With a TTL it expires keys the way the
// Redis backend does, refreshing the deadline on every write, so keys of
// sessions that stopped writing are eventually dropped. Failures can be
// injected to exercise the best-effort paths of its callers.
type Memory struct {
	mu        sync.RWMutex
	data      map[string]memoryEntry
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
	getErr    error
	setErr    error
	setHits   int
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithTTL expires keys ttl after their last write. ttl <= 0 keeps keys
// forever.
func WithTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) { m.ttl = ttl }
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{data: make(map[string]memoryEntry), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	m.lastSweep = m.now()
	return m
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	e, ok := m.data[key]
	if !ok || m.expired(e, m.now()) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setHits++
	if m.setErr != nil {
		return m.setErr
	}
	now := m.now()
	m.sweepLocked(now)
	e := memoryEntry{value: value}
	if m.ttl > 0 {
		e.expires = now.Add(m.ttl)
	}
	m.data[key] = e
	return nil
}

func (m *Memory) expired(e memoryEntry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// sweepLocked drops expired keys, at most once per TTL.
func (m *Memory) sweepLocked(now time.Time) {
	if m.ttl <= 0 || now.Sub(m.lastSweep) < m.ttl {
		return
	}
	for k, e := range m.data {
		if m.expired(e, now) {
			delete(m.data, k)
		}
	}
	m.lastSweep = now
}

// FailGets makes every Get return err; nil restores normal reads.
func (m *Memory) FailGets(err error) {
	m.mu.Lock()
	m.getErr = err
	m.mu.Unlock()
}

// FailSets makes every Set return err without storing; nil restores writes.
func (m *Memory) FailSets(err error) {
	m.mu.Lock()
	m.setErr = err
	m.mu.Unlock()
}

// Writes counts Set calls, including failed ones.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.setHits
}

// Len returns the number of keys held, expired ones included until the
// next sweep.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
