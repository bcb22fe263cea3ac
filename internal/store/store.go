// Package store holds the single-slot persistence fallback: the most recent
// simulation result is kept locally so a session survives the analysis
// service going away. Saving overwrites the previous slot unconditionally.
package store

import (
	"github.com/shivam675/sky-guardian-planner/pkg/core"
)

// Backend is the interface all fallback store implementations satisfy.
// Load returns (nil, nil) when the slot is empty or its payload cannot be
// decoded; readers treat both the same way.
type Backend interface {
	Save(rec core.StoredSimulation) error
	Load() (*core.StoredSimulation, error)
	Close() error
}
