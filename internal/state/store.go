package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/beepbasket/beepbasket/internal/hass"
)

// Snapshot represents the latest data available to the UI: the full mapping
// table plus an index of pending shopping-list items keyed by normalized name.
type Snapshot struct {
	Mappings    map[string]hass.MappingRecord
	Shopping    map[string]hass.ShoppingItem
	HasData     bool
	LastUpdated time.Time
	LastError   error
}

// InShoppingList reports whether a product name has a pending list entry.
func (s Snapshot) InShoppingList(name string) bool {
	_, ok := s.Shopping[hass.NormalizeName(name)]
	return ok
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. Both datasets are replaced together;
// when err is non-nil neither is touched and only the error is recorded, so a
// failed refresh never publishes partial data.
func (s *Store) Update(mappings map[string]hass.MappingRecord, items []hass.ShoppingItem, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		return
	}

	s.snapshot.Mappings = cloneMappings(mappings)
	s.snapshot.Shopping = indexPending(items)
	s.snapshot.HasData = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Mappings = cloneMappings(s.snapshot.Mappings)
	snap.Shopping = cloneShopping(s.snapshot.Shopping)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

// indexPending builds the shopping index from items still waiting to be
// bought, keyed by lower-cased trimmed name.
func indexPending(items []hass.ShoppingItem) map[string]hass.ShoppingItem {
	index := make(map[string]hass.ShoppingItem, len(items))
	for _, item := range items {
		if !item.Pending() {
			continue
		}
		index[hass.NormalizeName(item.Name)] = item
	}
	return index
}

func cloneMappings(in map[string]hass.MappingRecord) map[string]hass.MappingRecord {
	if in == nil {
		return nil
	}
	out := make(map[string]hass.MappingRecord, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneShopping(in map[string]hass.ShoppingItem) map[string]hass.ShoppingItem {
	if in == nil {
		return nil
	}
	out := make(map[string]hass.ShoppingItem, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
