package hass

import "strings"

// MappingRecord holds the product metadata stored for one barcode. The
// barcode itself is the map key on the wire and is treated as opaque text.
type MappingRecord struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Stores   string `json:"stores,omitempty"`
	Brands   string `json:"brands,omitempty"`
}

// ShoppingItem mirrors one entry of the host's shopping list.
type ShoppingItem struct {
	Name     string `json:"name"`
	Complete bool   `json:"complete"`
	Status   string `json:"status"`
}

// Pending reports whether the item still needs to be bought. Newer hosts set
// status, older ones only the complete flag.
func (i ShoppingItem) Pending() bool {
	return i.Status == "needs_action" || !i.Complete
}

// NormalizeName returns the key used to index shopping items by product name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// EntityState is the host's view of a single entity at a point in time.
type EntityState struct {
	EntityID    string `json:"entity_id"`
	State       string `json:"state"`
	LastChanged string `json:"last_changed"`
}

// StateChanged reports whether the watched entity moved between two
// observations. Either a new state value or a new last-changed timestamp
// counts; a missing observation on either side does not.
func StateChanged(prev, next *EntityState) bool {
	if prev == nil || next == nil {
		return false
	}
	return prev.State != next.State || prev.LastChanged != next.LastChanged
}

// StateEvent is one notification from the host's event stream.
type StateEvent struct {
	EventType string       `json:"event_type"`
	EntityID  string       `json:"entity_id"`
	NewState  *EntityState `json:"new_state,omitempty"`
}

// EventStateChanged is the event kind the watcher subscribes to.
const EventStateChanged = "state_changed"
