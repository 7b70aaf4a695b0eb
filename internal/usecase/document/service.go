package document

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsum/internal/domain"
	domdoc "github.com/kailas-cloud/docsum/internal/domain/document"
	"github.com/kailas-cloud/docsum/internal/logger"
	"github.com/kailas-cloud/docsum/internal/metrics"
)

// LookupStatus is the outcome of a single-document read.
type LookupStatus int

// Lookup outcomes.
const (
	LookupFound LookupStatus = iota
	LookupNotFound
	LookupFailed
)

func (s LookupStatus) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// Lookup is the explicit result of LookupDocument.
type Lookup struct {
	Status   LookupStatus
	Document domdoc.Document
	Err      error
}

// Service is the document store client used by the HTTP layer. It never
// returns errors: failures are logged, counted and collapsed to empty results.
type Service struct {
	repo Repository
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListDocuments returns every document of a collection, or an empty slice on failure.
func (s *Service) ListDocuments(ctx context.Context, collection string) []domdoc.Document {
	docs, err := s.repo.List(ctx, collection)
	if err != nil {
		logger.FromContext(ctx).Error("list documents failed",
			zap.String("collection", collection),
			zap.Error(err),
		)
		metrics.StoreOperationsTotal.WithLabelValues(metrics.OpList, metrics.StatusError).Inc()
		return []domdoc.Document{}
	}
	metrics.StoreOperationsTotal.WithLabelValues(metrics.OpList, metrics.StatusOK).Inc()
	if docs == nil {
		return []domdoc.Document{}
	}
	return docs
}

// LookupDocument reads one document and reports why it is absent, if it is.
func (s *Service) LookupDocument(ctx context.Context, collection, id string) Lookup {
	doc, err := s.repo.Get(ctx, collection, id)
	switch {
	case err == nil:
		metrics.StoreOperationsTotal.WithLabelValues(metrics.OpGet, metrics.StatusOK).Inc()
		return Lookup{Status: LookupFound, Document: doc}
	case errors.Is(err, domain.ErrDocumentNotFound):
		logger.FromContext(ctx).Debug("document not found",
			zap.String("collection", collection),
			zap.String("doc_id", id),
		)
		metrics.StoreOperationsTotal.WithLabelValues(metrics.OpGet, metrics.StatusNotFound).Inc()
		return Lookup{Status: LookupNotFound, Err: err}
	default:
		logger.FromContext(ctx).Error("get document failed",
			zap.String("collection", collection),
			zap.String("doc_id", id),
			zap.Error(err),
		)
		metrics.StoreOperationsTotal.WithLabelValues(metrics.OpGet, metrics.StatusError).Inc()
		return Lookup{Status: LookupFailed, Err: err}
	}
}

// GetDocument returns the document and true, or false when it is missing or unreadable.
func (s *Service) GetDocument(ctx context.Context, collection, id string) (domdoc.Document, bool) {
	res := s.LookupDocument(ctx, collection, id)
	if res.Status != LookupFound {
		return domdoc.Document{}, false
	}
	return res.Document, true
}

// UpdateDocument merges fields into an existing document. Reports success.
func (s *Service) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) bool {
	if err := s.repo.Merge(ctx, collection, id, fields); err != nil {
		status := metrics.StatusError
		if errors.Is(err, domain.ErrDocumentNotFound) {
			status = metrics.StatusNotFound
		}
		logger.FromContext(ctx).Error("update document failed",
			zap.String("collection", collection),
			zap.String("doc_id", id),
			zap.Int("fields", len(fields)),
			zap.Error(err),
		)
		metrics.StoreOperationsTotal.WithLabelValues(metrics.OpUpdate, status).Inc()
		return false
	}
	metrics.StoreOperationsTotal.WithLabelValues(metrics.OpUpdate, metrics.StatusOK).Inc()
	return true
}
