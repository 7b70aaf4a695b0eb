package health

import "context"

// DBPinger checks document store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SummarizerChecker checks summarization provider availability.
type SummarizerChecker interface {
	HealthCheck(ctx context.Context) error
}
