package document

import (
	"context"

	domdoc "github.com/kailas-cloud/docsum/internal/domain/document"
)

// Repository defines the storage contract for documents.
type Repository interface {
	List(ctx context.Context, collection string) ([]domdoc.Document, error)
	Get(ctx context.Context, collection, id string) (domdoc.Document, error)
	Merge(ctx context.Context, collection, id string, fields map[string]any) error
}
