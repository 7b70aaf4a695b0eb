package health

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsum/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates at least one failing component.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names used as keys in Report.Checks.
const (
	ComponentDatabase   = "database"
	ComponentSummarizer = "summarizer"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db         DBPinger
	summarizer SummarizerChecker
}

// New creates a Service. summarizer can be nil.
func New(db DBPinger, summarizer SummarizerChecker) *Service {
	return &Service{db: db, summarizer: summarizer}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 2)

	checks[ComponentDatabase] = runCheck(ctx, ComponentDatabase, s.db.Ping)
	if s.summarizer != nil {
		checks[ComponentSummarizer] = runCheck(ctx, ComponentSummarizer, s.summarizer.HealthCheck)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func runCheck(ctx context.Context, component string, fn func(context.Context) error) CheckResult {
	if err := fn(ctx); err != nil {
		logger.FromContext(ctx).Warn("health check failed",
			zap.String("component", component),
			zap.Error(err),
		)
		return CheckError
	}
	return CheckOK
}
