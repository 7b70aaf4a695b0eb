package document

import (
	"context"
	"testing"

	"github.com/kailas-cloud/docsum/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	listFn  func(ctx context.Context, collection string) ([]db.Record, error)
	getFn   func(ctx context.Context, collection, id string) (db.Record, error)
	mergeFn func(ctx context.Context, collection, id string, fields map[string]any) error
}

func (m *mockStore) List(ctx context.Context, collection string) ([]db.Record, error) {
	if m.listFn != nil {
		return m.listFn(ctx, collection)
	}
	return nil, nil
}

func (m *mockStore) Get(ctx context.Context, collection, id string) (db.Record, error) {
	if m.getFn != nil {
		return m.getFn(ctx, collection, id)
	}
	return db.Record{}, db.ErrKeyNotFound
}

func (m *mockStore) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	if m.mergeFn != nil {
		return m.mergeFn(ctx, collection, id, fields)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms)
	return repo, ms
}
