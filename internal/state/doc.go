// Package state holds the dashboard's in-memory data: the snapshot of the
// host's mapping table and shopping list, and the presentation state layered
// on top of it.
//
// # Store
//
// Store is the coordination point between the refresh cycle and the UI. The
// refresh goroutine writes with Update, the UI reads with Snapshot; an
// RWMutex plus defensive copies keep the two independent. Update replaces the
// mapping table and the shopping index together or, on error, neither: a
// failed fetch leaves the previous data visible and only records the error.
//
// # View
//
// View owns the filter term and the checkbox selection. It is not
// thread-safe: it lives inside the Bubble Tea update loop and is mutated only
// through its named transitions (ApplyRefresh, ApplyFilter, ToggleRow,
// ToggleAll), each of which re-establishes the invariants: selection is
// scoped to the displayed rows and cleared whenever the snapshot or the
// filter changes. Stale selection keys that linger between a mutation and the
// following refresh are harmless: counts and bulk actions intersect the
// selection with the displayed keys.
package state
