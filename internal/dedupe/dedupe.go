// Package dedupe suppresses duplicate rapid activations of the same target,
// such as a scan event and a manual key press landing on one barcode within a
// few hundred milliseconds of each other.
package dedupe

import (
	"sync"
	"time"
)

// DefaultCooldown is how long a key stays latched after it was acted upon.
const DefaultCooldown = 500 * time.Millisecond

// Latch remembers the last acted-upon key for a short cooldown. A repeat of
// the same key inside the window is rejected; a different key always
// acquires, replacing the latch.
type Latch struct {
	cooldown time.Duration
	now      func() time.Time

	mu    sync.Mutex
	key   string
	until time.Time
}

// New builds a latch. A non-positive cooldown selects the default.
func New(cooldown time.Duration) *Latch {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Latch{cooldown: cooldown, now: time.Now}
}

// TryAcquire reports whether an action on key may proceed, and if so latches
// the key for the cooldown window.
func (l *Latch) TryAcquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.key == key && now.Before(l.until) {
		return false
	}
	l.key = key
	l.until = now.Add(l.cooldown)
	return true
}

// Reset clears the latch so the next activation on any key proceeds.
func (l *Latch) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.key = ""
	l.until = time.Time{}
}
