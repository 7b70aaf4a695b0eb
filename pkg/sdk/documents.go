package docsum

import (
	"context"
	"fmt"
	"time"

	domdoc "github.com/kailas-cloud/docsum/internal/domain/document"
	documentuc "github.com/kailas-cloud/docsum/internal/usecase/document"
)

// DocumentService reads and summarizes documents within a single collection.
type DocumentService struct {
	collection string
	docSvc     documentUseCase
	batchSvc   batchUseCase
	obs        *observer
}

// List returns every document in the collection. A store failure yields an empty list.
func (s *DocumentService) List(ctx context.Context) []Document {
	start := time.Now()
	docs := s.docSvc.ListDocuments(ctx, s.collection)

	out := make([]Document, len(docs))
	for i := range docs {
		out[i] = fromInternalDocument(&docs[i])
	}

	s.obs.observe(opList, s.collection, start, nil)
	return out
}

// Get retrieves a document by ID. Returns ErrDocumentNotFound when it does not exist.
func (s *DocumentService) Get(ctx context.Context, id string) (doc Document, err error) {
	start := time.Now()
	defer func() { s.obs.observe(opGet, s.collection, start, err) }()

	l := s.docSvc.LookupDocument(ctx, s.collection, id)
	switch l.Status {
	case documentuc.LookupFound:
		return fromInternalDocument(&l.Document), nil
	case documentuc.LookupNotFound:
		return Document{}, fmt.Errorf("get document: %w", ErrDocumentNotFound)
	default:
		return Document{}, fmt.Errorf("get document: %w", l.Err)
	}
}

// Summarize summarizes the named string fields of a document and merges each
// summary back as <field>_summary. Fields that are missing or not strings are skipped.
// A failed summary is returned (and stored) as an error description, not an error.
func (s *DocumentService) Summarize(ctx context.Context, id string, fields ...string) (summaries map[string]string, err error) {
	start := time.Now()
	defer func() {
		s.obs.observe(opSummarize, s.collection, start, err)
		s.obs.summarized(s.collection, len(summaries))
	}()

	summaries, err = s.batchSvc.SummarizeDocument(ctx, s.collection, id, fields)
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}
	return summaries, nil
}

func fromInternalDocument(d *domdoc.Document) Document {
	return Document{
		ID:     d.ID(),
		Fields: d.Fields(),
	}
}
