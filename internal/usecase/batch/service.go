package batch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsum/internal/domain"
	dombatch "github.com/kailas-cloud/docsum/internal/domain/batch"
	"github.com/kailas-cloud/docsum/internal/logger"
	"github.com/kailas-cloud/docsum/internal/metrics"
	"github.com/kailas-cloud/docsum/internal/usecase/summary"
)

// Persistence modes for metrics and logs.
const (
	modeSingle = "single"
	modeBulk   = "bulk"
)

// Service runs summarize-and-persist workflows for one document or a whole collection.
type Service struct {
	docs DocumentStore
	sum  Summarizer
}

// New creates a batch service.
func New(docs DocumentStore, sum Summarizer) *Service {
	return &Service{docs: docs, sum: sum}
}

// SummarizeDocument summarizes the named fields of one document and writes the
// non-empty result back. Write failures are logged and counted but do not fail
// the call: the caller still gets the summaries.
// Returns domain.ErrDocumentNotFound when the document is absent or unreadable.
func (s *Service) SummarizeDocument(
	ctx context.Context, collection, id string, fields []string,
) (map[string]string, error) {
	doc, ok := s.docs.GetDocument(ctx, collection, id)
	if !ok {
		return nil, fmt.Errorf("summarize %s/%s: %w", collection, id, domain.ErrDocumentNotFound)
	}

	results := s.sum.SummarizeFieldsResults(ctx, &doc, fields)
	summaries := summary.Flatten(results)
	if len(summaries) > 0 {
		s.persist(ctx, collection, id, summaries, modeSingle)
	}
	return summaries, nil
}

// SummarizeCollection runs allowlist summarization over every document of a
// collection, sequentially. Only documents that produced at least one summary
// appear in the result.
func (s *Service) SummarizeCollection(ctx context.Context, collection string) []dombatch.Result {
	docs := s.docs.ListDocuments(ctx, collection)
	results := make([]dombatch.Result, 0, len(docs))

	failed := 0
	for i := range docs {
		doc := &docs[i]
		fieldResults := s.sum.SummarizeAllowlistedResults(ctx, doc)
		summaries := summary.Flatten(fieldResults)
		if len(summaries) == 0 {
			continue
		}
		failed += summary.Failed(fieldResults)

		persisted := s.persist(ctx, collection, doc.ID(), summaries, modeBulk)
		results = append(results, dombatch.NewResult(doc.ID(), len(summaries), persisted))
	}

	logger.FromContext(ctx).Info("bulk summarization finished",
		zap.String("collection", collection),
		zap.Int("documents", len(docs)),
		zap.Int("summarized", len(results)),
		zap.Int("failed_fields", failed),
	)
	return results
}

func (s *Service) persist(ctx context.Context, collection, id string, summaries map[string]string, mode string) bool {
	fields := make(map[string]any, len(summaries))
	for k, v := range summaries {
		fields[k] = v
	}

	if s.docs.UpdateDocument(ctx, collection, id, fields) {
		return true
	}
	logger.FromContext(ctx).Warn("summaries not persisted",
		zap.String("collection", collection),
		zap.String("doc_id", id),
		zap.String("mode", mode),
		zap.Int("summaries", len(summaries)),
	)
	metrics.PersistFailuresTotal.WithLabelValues(mode).Inc()
	return false
}
