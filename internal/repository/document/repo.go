package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/docsum/internal/db"
	"github.com/kailas-cloud/docsum/internal/domain"
	domdoc "github.com/kailas-cloud/docsum/internal/domain/document"
)

// store is the consumer interface for documents (ISP).
type store interface {
	List(ctx context.Context, collection string) ([]db.Record, error)
	Get(ctx context.Context, collection, id string) (db.Record, error)
	Merge(ctx context.Context, collection, id string, fields map[string]any) error
}

// Repo implements usecase/document.Repository.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// List returns every document of a collection in backend order.
func (r *Repo) List(ctx context.Context, collection string) ([]domdoc.Document, error) {
	if collection == "" {
		return nil, fmt.Errorf("list: empty collection: %w", domain.ErrInvalidRequest)
	}

	records, err := r.store.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, mapErr(err))
	}

	docs := make([]domdoc.Document, 0, len(records))
	for _, rec := range records {
		docs = append(docs, toDocument(rec))
	}
	return docs, nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, collection, id string) (domdoc.Document, error) {
	if collection == "" || id == "" {
		return domdoc.Document{}, fmt.Errorf("get: empty collection or id: %w", domain.ErrInvalidRequest)
	}

	rec, err := r.store.Get(ctx, collection, id)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("get %s/%s: %w", collection, id, mapErr(err))
	}
	if rec.ID == "" {
		rec.ID = id
	}
	return toDocument(rec), nil
}

// Merge writes only the given fields; the rest of the document is untouched.
func (r *Repo) Merge(ctx context.Context, collection, id string, fields map[string]any) error {
	if collection == "" || id == "" {
		return fmt.Errorf("merge: empty collection or id: %w", domain.ErrInvalidRequest)
	}

	if err := r.store.Merge(ctx, collection, id, fields); err != nil {
		return fmt.Errorf("merge %s/%s: %w", collection, id, mapErr(err))
	}
	return nil
}

// mapErr translates storage sentinels into domain errors.
func mapErr(err error) error {
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return domain.ErrDocumentNotFound
	case errors.Is(err, db.ErrInvalidCollection):
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	default:
		return err
	}
}
