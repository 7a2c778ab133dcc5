package httpserver

import (
	"testing"
	"time"
)

func TestIPLimiters_EvictsIdleClients(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	l := newIPLimiters(1, 1)
	l.now = func() time.Time { return now }
	l.lastSweep = start

	first := l.get("10.0.0.1")
	l.get("10.0.0.2")
	if l.get("10.0.0.1") != first {
		t.Fatalf("expected the same limiter for a returning client")
	}
	if n := l.len(); n != 2 {
		t.Fatalf("expected 2 limiters, got %d", n)
	}

	now = start.Add(limiterIdleTTL / 2)
	l.get("10.0.0.2")

	now = start.Add(limiterIdleTTL)
	l.get("10.0.0.3")
	if n := l.len(); n != 2 {
		t.Fatalf("expected the idle client to be swept, got %d limiters", n)
	}
	if l.get("10.0.0.1") == first {
		t.Fatalf("expected a fresh limiter after eviction")
	}
}
