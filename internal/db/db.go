package db

import (
	"context"
	"time"
)

// Store is the database facade every backend implements.
type Store interface {
	Pinger
	DocumentStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Record is a raw document as read from a backend: its id plus normalized field values.
type Record struct {
	ID     string
	Fields map[string]any
}

// DocumentStore provides collection-scoped document operations.
type DocumentStore interface {
	List(ctx context.Context, collection string) ([]Record, error)
	Get(ctx context.Context, collection, id string) (Record, error)
	// Merge updates only the given fields of an existing document.
	// Returns ErrKeyNotFound when the document does not exist.
	Merge(ctx context.Context, collection, id string, fields map[string]any) error
}
