package identity

import (
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two attempts should be allowed")
	}
	if l.Allow("a") {
		t.Error("third attempt inside the window should be refused")
	}
	if !l.Allow("b") {
		t.Error("other keys have their own bucket")
	}

	now = now.Add(time.Minute)
	if !l.Allow("a") {
		t.Error("attempts should refill after the window")
	}

	l.Allow("a")
	l.Reset("a")
	if !l.Allow("a") {
		t.Error("Reset should restore the bucket")
	}
}

func TestLimiterSweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	now = now.Add(2 * time.Minute)
	l.Allow("c")

	if len(l.buckets) != 1 {
		t.Errorf("buckets = %d, want 1 after sweep", len(l.buckets))
	}
}
