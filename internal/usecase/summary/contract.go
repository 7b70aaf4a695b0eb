package summary

import (
	"context"

	"github.com/kailas-cloud/docsum/internal/domain"
)

// Completer sends a single chat exchange to the hosted model.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.CompletionResult, error)
}
