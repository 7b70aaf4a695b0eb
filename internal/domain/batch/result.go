package batch

// Result is the outcome of summarizing one document during a collection-wide run.
type Result struct {
	docID          string
	summariesAdded int
	persisted      bool
}

// NewResult creates a result for a document that produced summaries.
func NewResult(docID string, summariesAdded int, persisted bool) Result {
	return Result{docID: docID, summariesAdded: summariesAdded, persisted: persisted}
}

// DocID returns the document identifier.
func (r Result) DocID() string { return r.docID }

// SummariesAdded returns how many summary fields were generated.
func (r Result) SummariesAdded() int { return r.summariesAdded }

// Persisted reports whether the merge-update succeeded.
func (r Result) Persisted() bool { return r.persisted }
