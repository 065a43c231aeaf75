package hass

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestStateChanged(t *testing.T) {
	base := &EntityState{EntityID: "todo.shopping_list", State: "2", LastChanged: "2026-08-30T10:00:00Z"}

	cases := []struct {
		name string
		prev *EntityState
		next *EntityState
		want bool
	}{
		{"identical", base, &EntityState{EntityID: base.EntityID, State: "2", LastChanged: base.LastChanged}, false},
		{"state differs", base, &EntityState{State: "3", LastChanged: base.LastChanged}, true},
		{"timestamp differs", base, &EntityState{State: "2", LastChanged: "2026-08-30T11:00:00Z"}, true},
		{"missing previous", nil, base, false},
		{"missing next", base, nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StateChanged(tc.prev, tc.next); got != tc.want {
				t.Fatalf("StateChanged = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSubscribeEvents_ParsesStreamAndStopsOnCancel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("restrict") != EventStateChanged {
			http.Error(w, "missing restrict", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		fmt.Fprintf(w, "data: {\"event_type\":\"state_changed\",\"entity_id\":\"todo.shopping_list\",\"new_state\":{\"state\":\"4\"}}\n\n")
		fmt.Fprintf(w, "data: {not json\n\n")
		fmt.Fprintf(w, "data: {\"event_type\":\"state_changed\",\"entity_id\":\"light.kitchen\"}\n\n")
		flusher.Flush()

		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	events, cancel, err := c.SubscribeEvents(context.Background())
	if err != nil {
		t.Fatalf("SubscribeEvents returned error: %v", err)
	}
	t.Cleanup(cancel)

	first := <-events
	if first.EntityID != "todo.shopping_list" || first.NewState == nil || first.NewState.State != "4" {
		t.Fatalf("first event = %#v, want shopping list state 4", first)
	}
	second := <-events
	if second.EntityID != "light.kitchen" {
		t.Fatalf("second event = %#v, want light.kitchen (malformed frame skipped)", second)
	}

	// cancel must be idempotent and must end the stream.
	cancel()
	cancel()
	select {
	case _, open := <-events:
		if open {
			t.Fatalf("received event after cancel, want closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("stream did not close after cancel")
	}
}

func TestSubscribeEvents_DropsWhenConsumerLags(t *testing.T) {
	t.Parallel()

	const frames = 100
	sent := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for i := 0; i < frames; i++ {
			fmt.Fprintf(w, "data: {\"event_type\":\"state_changed\",\"entity_id\":\"todo.shopping_list\"}\n\n")
		}
		w.(http.Flusher).Flush()
		close(sent)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	events, cancel, err := c.SubscribeEvents(context.Background())
	if err != nil {
		t.Fatalf("SubscribeEvents returned error: %v", err)
	}
	t.Cleanup(cancel)

	// Do not consume until the whole stream has been written and parsed. If
	// delivery blocked on the full buffer the channel would never close and
	// draining would yield every frame instead of the buffered subset.
	<-sent
	time.Sleep(300 * time.Millisecond)

	count := 0
	timeout := time.After(2 * time.Second)
	for open := true; open; {
		select {
		case _, ok := <-events:
			if !ok {
				open = false
				break
			}
			count++
		case <-timeout:
			t.Fatalf("stream never closed; delivery blocked on a full channel")
		}
	}

	if count >= frames {
		t.Fatalf("received all %d events, want excess dropped on the full channel", count)
	}
	if count == 0 {
		t.Fatalf("received no events")
	}
}

type fakeSubscriber struct {
	mu     sync.Mutex
	states []*EntityState
	stream chan StateEvent
}

func (f *fakeSubscriber) SubscribeEvents(ctx context.Context) (<-chan StateEvent, func(), error) {
	return f.stream, func() {}, nil
}

func (f *fakeSubscriber) FetchState(ctx context.Context, entityID string) (*EntityState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.states) == 0 {
		return nil, fmt.Errorf("no state")
	}
	next := f.states[0]
	if len(f.states) > 1 {
		f.states = f.states[1:]
	}
	return next, nil
}

func TestWatcher_InvokesCallbackPerMatchingEvent(t *testing.T) {
	sub := &fakeSubscriber{stream: make(chan StateEvent, 8)}

	var mu sync.Mutex
	fired := 0
	w := NewWatcher(sub, "todo.shopping_list", func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})
	w.retryDelay = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	w.Start(ctx)
	w.Start(ctx) // second Start is a no-op

	sub.stream <- StateEvent{EventType: EventStateChanged, EntityID: "todo.shopping_list", NewState: &EntityState{State: "1"}}
	sub.stream <- StateEvent{EventType: EventStateChanged, EntityID: "light.kitchen"}
	sub.stream <- StateEvent{EventType: "call_service", EntityID: "todo.shopping_list"}
	sub.stream <- StateEvent{EventType: EventStateChanged, EntityID: "todo.shopping_list", NewState: &EntityState{State: "2"}}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := fired
		mu.Unlock()
		if n == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("callback fired %d times, want 2", n)
		}
		time.Sleep(5 * time.Millisecond)
	}

	w.Stop()
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	sub := &fakeSubscriber{stream: make(chan StateEvent)}
	w := NewWatcher(sub, "todo.shopping_list", func() {})

	// Stop before Start must not panic, and repeated stops are no-ops.
	w.Stop()
	w.Stop()

	select {
	case <-w.Done():
	default:
		t.Fatalf("Done not closed after Stop")
	}
}
