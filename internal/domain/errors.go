package domain

import "errors"

var (
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidRequest signals a request the service cannot act on (empty collection or id).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSummarizerProviderError signals a failure of the hosted summarization model.
	ErrSummarizerProviderError = errors.New("summarizer provider error")
	// ErrSummarizerNotConfigured signals that no summarization backend was wired.
	ErrSummarizerNotConfigured = errors.New("summarizer not configured")
)
