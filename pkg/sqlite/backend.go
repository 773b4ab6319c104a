// Package sqlite provides the public API for the SQLite response store.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/orgscout/internal/sqlite"
	"github.com/mesh-intelligence/orgscout/pkg/types"
)

// NewBackend creates a new SQLite response store.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".orgscout-db",
//	})
//	defer store.Detach()
func NewBackend() types.ResponseStore {
	return sqlite.NewBackend()
}
