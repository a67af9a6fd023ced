// Package store provides access to the linked-record store backing the engine.
//
// The store is a generic collection-of-records service with foreign-key-style
// links and no native joins: records are flat field maps, links are arrays of
// record IDs, and querying is limited to simple filter formulas. The engine
// owns no durable state of its own; everything persisted lives here.
package store

import (
	"context"
	"time"
)

// Record is a single row in a collection. Fields is the raw decoded field map;
// use pkg/jsonutil to read loosely-typed values out of it.
type Record struct {
	ID          string
	CreatedTime time.Time
	Fields      map[string]any
}

// RecordStore is the contract the engine requires from the backing store.
type RecordStore interface {
	// Find returns a single record by ID, or apperrors.ErrNotFound.
	Find(ctx context.Context, table, id string) (*Record, error)

	// List returns all records matching the filter formula. An empty filter
	// returns the whole collection.
	List(ctx context.Context, table, filter string) ([]*Record, error)

	// Create inserts a record and returns it with its assigned ID.
	Create(ctx context.Context, table string, fields map[string]any) (*Record, error)

	// Update patches the given fields on an existing record.
	Update(ctx context.Context, table, id string, fields map[string]any) error
}
