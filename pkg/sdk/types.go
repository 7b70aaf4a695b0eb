package docsum

// Document is a schemaless record: its id plus field values normalized to
// plain Go types (map[string]any, []any, string, int64, float64, bool, time.Time, nil).
type Document struct {
	ID     string
	Fields map[string]any
}

// String returns the named field when it holds a string.
func (d Document) String(field string) (string, bool) {
	s, ok := d.Fields[field].(string)
	return s, ok
}

// BulkResult reports the outcome of summarizing one document in a collection sweep.
type BulkResult struct {
	DocID          string
	SummariesAdded int
	Persisted      bool
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component -> "ok"/"error"
}
