package refresh

import (
	"sync"
	"time"
)

const (
	// DefaultWindow is the debounce delay after the most recent invalidation
	// before a refresh cycle actually executes.
	DefaultWindow = 800 * time.Millisecond
	// DefaultInitialDelay spaces the very first fetch away from program
	// startup so the display shell mounts before data arrives.
	DefaultInitialDelay = 100 * time.Millisecond
)

// Controller coalesces invalidation signals into bounded-rate refresh cycles.
//
// It is a two-state machine, idle or pending, with a single owned timer.
// Invalidate while pending restarts the window rather than queueing a second
// cycle. At most one cycle runs at a time; an invalidation arriving while a
// cycle is in flight is captured and schedules exactly one more full window
// after the cycle ends, so the final state always reflects the last known
// external change. The cycle function itself decides what fetching means and
// whether its outcome was an error; the controller never retries on its own.
type Controller struct {
	run     func()
	window  time.Duration
	initial time.Duration

	mu       sync.Mutex
	timer    *time.Timer
	pending  bool
	inflight bool
	rearm    bool
	closed   bool
}

// New builds a controller around a cycle function. Zero durations select the
// defaults; tests pass short ones.
func New(run func(), window, initial time.Duration) *Controller {
	if window <= 0 {
		window = DefaultWindow
	}
	if initial <= 0 {
		initial = DefaultInitialDelay
	}
	return &Controller{run: run, window: window, initial: initial}
}

// Start arms the initial fetch. It is a no-op if a cycle is already pending
// or the controller is closed.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.pending {
		return
	}
	c.pending = true
	c.timer = time.AfterFunc(c.initial, c.fire)
}

// Invalidate signals that the external state may have changed. If a window is
// already open it restarts; if a cycle is in flight the signal is captured
// and honored once the cycle finishes.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.inflight {
		c.rearm = true
		return
	}
	if c.pending {
		c.timer.Stop()
	}
	c.pending = true
	c.timer = time.AfterFunc(c.window, c.fire)
}

// FlushNow cancels any open window and runs a cycle immediately. A cycle
// already in flight is not duplicated; the flush is captured like an
// invalidation instead.
func (c *Controller) FlushNow() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if c.pending {
		c.timer.Stop()
		c.timer = nil
		c.pending = false
	}
	if c.inflight {
		c.rearm = true
		c.mu.Unlock()
		return
	}
	c.inflight = true
	c.mu.Unlock()
	go c.execute()
}

// Close stops the timer and turns all later transitions into no-ops. Safe to
// call repeatedly and concurrently with a firing timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = false
	c.rearm = false
}

func (c *Controller) fire() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.pending = false
	c.timer = nil
	if c.inflight {
		c.rearm = true
		c.mu.Unlock()
		return
	}
	c.inflight = true
	c.mu.Unlock()
	c.execute()
}

func (c *Controller) execute() {
	c.run()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight = false
	if c.rearm && !c.closed {
		c.rearm = false
		c.pending = true
		c.timer = time.AfterFunc(c.window, c.fire)
	}
}
