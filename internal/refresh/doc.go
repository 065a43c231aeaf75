// Package refresh provides the debounced refresh controller that turns bursts
// of invalidation signals into single fetch cycles.
//
// # State Machine
//
//	IDLE ──Invalidate──▶ PENDING (timer armed)
//	PENDING ──Invalidate──▶ PENDING (timer restarted)
//	PENDING ──timer fires──▶ cycle runs ──▶ IDLE
//	cycle in flight ──Invalidate──▶ captured, one more window after the cycle
//
// The controller owns exactly one timer and allows exactly one cycle in
// flight. Signals arriving while a cycle runs are never dropped: they collapse
// into a single follow-up window, which is what guarantees eventual
// consistency with the last external change without ever stacking fetches.
//
// What a cycle does is up to the caller. The composition root wires in a
// function that fetches both host datasets, stores the result atomically, and
// notifies the UI; errors stay inside that function, and the controller does
// not retry; the next invalidation or a manual flush triggers the next
// attempt.
package refresh
