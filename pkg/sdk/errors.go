package docsum

import "github.com/kailas-cloud/docsum/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrDocumentNotFound        = domain.ErrDocumentNotFound
	ErrInvalidRequest          = domain.ErrInvalidRequest
	ErrSummarizerProviderError = domain.ErrSummarizerProviderError
	ErrSummarizerNotConfigured = domain.ErrSummarizerNotConfigured
)
