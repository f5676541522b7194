package bizdex

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/bizdex/internal/usecase/health"
)

// HealthStatus is the outcome of probing the configured backend.
type HealthStatus struct {
	Status   string            // "ok" or "degraded"
	Checks   map[string]string // component -> "ok" or "error"
	Listings int               // indexed listings; -1 when the backend could not be counted
	Latency  time.Duration     // ping round-trip
}

// Healthy reports whether the backend answered.
func (h HealthStatus) Healthy() bool { return h.Status == string(healthuc.Healthy) }

// Health pings the backend and counts stored listings.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	status := HealthStatus{
		Status:   string(report.Status),
		Checks:   make(map[string]string, len(report.Checks)),
		Listings: report.Listings,
		Latency:  report.Latency,
	}
	for k, v := range report.Checks {
		status.Checks[k] = string(v)
	}
	return status
}
