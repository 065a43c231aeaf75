package hass

import (
	"context"
	"log"
	"sync"
	"time"
)

// Subscriber is the part of the client the watcher needs. *Client satisfies
// it; tests substitute fakes.
type Subscriber interface {
	SubscribeEvents(ctx context.Context) (<-chan StateEvent, func(), error)
	FetchState(ctx context.Context, entityID string) (*EntityState, error)
}

// Watcher follows the host event stream and invokes a callback whenever the
// configured shopping-list entity changes state. When the stream drops it
// reconnects with backoff; because changes can be missed while disconnected,
// it re-reads the entity state after every reconnect and invokes the callback
// if the state moved in the meantime.
type Watcher struct {
	client     Subscriber
	entityID   string
	invalidate func()

	retryDelay time.Duration

	mu       sync.Mutex
	lastSeen *EntityState

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

const defaultRetryDelay = 5 * time.Second

// NewWatcher builds a watcher for one entity. invalidate is called once per
// matching event, never concurrently with itself.
func NewWatcher(client Subscriber, entityID string, invalidate func()) *Watcher {
	return &Watcher{
		client:     client,
		entityID:   entityID,
		invalidate: invalidate,
		retryDelay: defaultRetryDelay,
		done:       make(chan struct{}),
	}
}

// Start launches the watch loop. Calling it more than once is a no-op.
func (w *Watcher) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		w.cancel = cancel
		go w.run(ctx)
	})
}

// Stop tears the watcher down. It is idempotent and safe to call before
// Start; events in flight after Stop are dropped.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
		}
		close(w.done)
	})
}

// Done is closed once Stop has been called.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) run(ctx context.Context) {
	reconnected := false
	for {
		if ctx.Err() != nil {
			return
		}

		events, cancel, err := w.client.SubscribeEvents(ctx)
		if err != nil {
			log.Printf("event stream connect failed: %v", err)
			if !w.sleep(ctx) {
				return
			}
			reconnected = true
			continue
		}

		if reconnected {
			w.checkMissedChange(ctx)
		}

		for event := range events {
			if w.stopped() {
				cancel()
				return
			}
			if event.EventType != EventStateChanged || event.EntityID != w.entityID {
				continue
			}
			w.remember(event.NewState)
			w.invalidate()
		}
		cancel()

		if ctx.Err() != nil {
			return
		}
		log.Printf("event stream closed, reconnecting")
		if !w.sleep(ctx) {
			return
		}
		reconnected = true
	}
}

// checkMissedChange compares the entity's current state against the last one
// observed before the stream dropped and fires the callback on a mismatch.
func (w *Watcher) checkMissedChange(ctx context.Context) {
	next, err := w.client.FetchState(ctx, w.entityID)
	if err != nil {
		log.Printf("fetch %s after reconnect failed: %v", w.entityID, err)
		return
	}
	w.mu.Lock()
	prev := w.lastSeen
	w.lastSeen = next
	w.mu.Unlock()
	if StateChanged(prev, next) {
		w.invalidate()
	}
}

func (w *Watcher) remember(state *EntityState) {
	if state == nil {
		return
	}
	w.mu.Lock()
	w.lastSeen = state
	w.mu.Unlock()
}

func (w *Watcher) stopped() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

func (w *Watcher) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(w.retryDelay):
		return true
	}
}
