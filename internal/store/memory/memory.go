// Package memorystore implements the fallback store in process memory.
// Nothing survives a restart; useful for tests and for running without any
// local persistence.
package memorystore

import (
	"sync"

	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

// Backend keeps the slot in memory behind a mutex.
type Backend struct {
	mu   sync.RWMutex
	slot *core.StoredSimulation
}

// New creates an empty in-memory store.
func New() *Backend {
	return &Backend{}
}

// Save overwrites the slot with rec.
func (b *Backend) Save(rec core.StoredSimulation) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := rec
	cp.Result.Mission = rec.Result.Mission.Clone()
	cp.Result.Flights = core.CloneFlights(rec.Result.Flights)
	b.slot = &cp
	return nil
}

// Load returns a copy of the slot, or (nil, nil) when empty.
func (b *Backend) Load() (*core.StoredSimulation, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.slot == nil {
		return nil, nil
	}
	cp := *b.slot
	cp.Result.Mission = b.slot.Result.Mission.Clone()
	cp.Result.Flights = core.CloneFlights(b.slot.Result.Flights)
	return &cp, nil
}

// Close is a no-op.
func (b *Backend) Close() error {
	return nil
}
