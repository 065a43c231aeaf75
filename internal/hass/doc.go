// Package hass implements the HTTP client for the home-automation host that
// stores the barcode mapping table and the shopping list.
//
// # Overview
//
// The dashboard owns no persistence of its own: every read (mappings,
// shopping list, entity states, product lookups) and every write (add or
// remove a mapping, append a shopping item) goes through this package. The
// host is always the authoritative source; callers reconcile their local
// snapshot by re-fetching rather than patching.
//
// # Components
//
//   - client.go: request/response JSON client with Bearer auth, timeouts,
//     and typed APIError values for failed calls
//   - events.go: server-sent event stream restricted to state-changed events
//   - watcher.go: long-running subscription to one entity with reconnect
//     handling and a missed-change check after every reconnect
//   - types.go: wire types plus the StateChanged predicate
//
// # Error Handling
//
// Non-2xx responses decode into *APIError carrying the host's message so the
// UI can surface it verbatim. LookupProduct additionally folds the host's
// soft `{error}` payload into an ordinary error; callers treat any lookup
// failure as "no suggestion" and fall back to the barcode itself.
package hass
