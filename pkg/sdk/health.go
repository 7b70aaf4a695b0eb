package docsum

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/docsum/internal/usecase/health"
)

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Health checks the document store and, when configured, the summarizer.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	var err error
	if report.Status != healthuc.Healthy {
		err = errDegraded
	}
	c.obs.observe(opHealth, "", start, err)

	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}
