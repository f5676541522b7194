package health

import (
	"context"
	"time"
)

// Status is the overall verdict.
type Status string

const (
	// Healthy means the index answered.
	Healthy Status = "ok"
	// Degraded means the index is unreachable; the API process itself still answers.
	Degraded Status = "degraded"
)

// CheckResult is one component's outcome.
type CheckResult string

// Per-component outcomes.
const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// UnknownCount marks Report.Listings when the index could not be counted.
const UnknownCount = -1

// Report is the result of one probe.
type Report struct {
	Status   Status
	Checks   map[string]CheckResult
	Listings int // indexed listings, UnknownCount when the index is down
	Latency  time.Duration
}

// Service probes the listing index.
type Service struct {
	index   Index
	timeout time.Duration
}

// New creates a Service. timeout <= 0 relies on the caller deadline.
func New(index Index, timeout time.Duration) *Service {
	return &Service{index: index, timeout: timeout}
}

// Check pings the index and, when it answers, counts the stored listings.
// A failing count does not degrade the verdict.
func (s *Service) Check(ctx context.Context) Report {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	report := Report{
		Status:   Healthy,
		Checks:   map[string]CheckResult{"index": CheckOK},
		Listings: UnknownCount,
	}

	if err := s.index.Ping(ctx); err != nil {
		report.Status = Degraded
		report.Checks["index"] = CheckError
		report.Latency = time.Since(start)
		return report
	}
	report.Latency = time.Since(start)

	if n, err := s.index.Count(ctx); err == nil {
		report.Listings = n
	}
	return report
}
