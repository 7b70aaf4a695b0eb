package batch

import (
	"context"

	domdoc "github.com/kailas-cloud/docsum/internal/domain/document"
	"github.com/kailas-cloud/docsum/internal/usecase/summary"
)

// DocumentStore reads documents and merges summaries back into them.
type DocumentStore interface {
	ListDocuments(ctx context.Context, collection string) []domdoc.Document
	GetDocument(ctx context.Context, collection, id string) (domdoc.Document, bool)
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) bool
}

// Summarizer produces per-field summaries for a document.
type Summarizer interface {
	SummarizeFieldsResults(ctx context.Context, doc *domdoc.Document, fields []string) []summary.FieldSummary
	SummarizeAllowlistedResults(ctx context.Context, doc *domdoc.Document) []summary.FieldSummary
}
