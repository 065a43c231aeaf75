package dedupe

import (
	"testing"
	"time"
)

func newTestLatch(cooldown time.Duration) (*Latch, *time.Time) {
	l := New(cooldown)
	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLatch_SuppressesSameKeyWithinCooldown(t *testing.T) {
	l, now := newTestLatch(500 * time.Millisecond)

	if !l.TryAcquire("111") {
		t.Fatalf("first activation rejected, want acquired")
	}
	if l.TryAcquire("111") {
		t.Fatalf("immediate repeat acquired, want suppressed")
	}

	*now = now.Add(499 * time.Millisecond)
	if l.TryAcquire("111") {
		t.Fatalf("repeat inside cooldown acquired, want suppressed")
	}

	*now = now.Add(2 * time.Millisecond)
	if !l.TryAcquire("111") {
		t.Fatalf("repeat after cooldown rejected, want acquired")
	}
}

func TestLatch_DifferentKeyIsNotSuppressed(t *testing.T) {
	l, _ := newTestLatch(500 * time.Millisecond)

	if !l.TryAcquire("111") {
		t.Fatalf("first key rejected")
	}
	if !l.TryAcquire("222") {
		t.Fatalf("different key during cooldown rejected, want acquired")
	}
	// The latch follows the most recent key.
	if l.TryAcquire("222") {
		t.Fatalf("repeat of latched key acquired, want suppressed")
	}
	if !l.TryAcquire("111") {
		t.Fatalf("previous key should no longer be latched")
	}
}

func TestLatch_ResetClears(t *testing.T) {
	l, _ := newTestLatch(500 * time.Millisecond)

	l.TryAcquire("111")
	l.Reset()
	if !l.TryAcquire("111") {
		t.Fatalf("activation after Reset rejected, want acquired")
	}
}

func TestLatch_DefaultCooldown(t *testing.T) {
	l := New(0)
	if l.cooldown != DefaultCooldown {
		t.Fatalf("cooldown = %v, want %v", l.cooldown, DefaultCooldown)
	}
}
