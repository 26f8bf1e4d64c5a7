// File: database/repository/memory/table.go
package memoryRepo

import (
	"sync"

	"marketplace/models"
)

// table is a mutex-guarded map that remembers insertion order.
type table[V any] struct {
	mu    sync.RWMutex
	rows  map[string]V
	order []string
}

func newTable[V any]() *table[V] {
	return &table[V]{rows: make(map[string]V)}
}

func (t *table[V]) get(id string) (V, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	return v, ok
}

// put must be called with mu held for writing.
func (t *table[V]) put(id string, v V) {
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[V]) filter(keep func(V) bool) []V {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.filterLocked(keep)
}

func (t *table[V]) filterLocked(keep func(V) bool) []V {
	out := []V{}
	for _, id := range t.order {
		if v := t.rows[id]; keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[V]) exists(match func(V) bool) bool {
	return len(t.filter(match)) > 0
}

func activeOn(vendorID, date string) func(models.Reservation) bool {
	return func(r models.Reservation) bool {
		return r.IsActive && r.ResourceID == vendorID && r.Window.Date == date
	}
}
