package listing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bizdex/internal/domain"
	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
	"github.com/kailas-cloud/bizdex/internal/domain/search/plan"
	"github.com/kailas-cloud/bizdex/internal/domain/search/result"
	"github.com/kailas-cloud/bizdex/internal/logger"
	"github.com/kailas-cloud/bizdex/internal/metrics"
)

// InstrumentedIndex wraps an Index with Prometheus metrics and debug logging.
type InstrumentedIndex struct {
	inner   Index
	backend string
	logger  *zap.Logger
}

// NewInstrumentedIndex wraps index; backend is the metrics label (redis, elasticsearch, ...).
func NewInstrumentedIndex(inner Index, backend string, logger *zap.Logger) *InstrumentedIndex {
	metrics.RegisterIndexMetrics()
	return &InstrumentedIndex{inner: inner, backend: backend, logger: logger}
}

// Execute runs the plan on the inner index and records latency and hit counts.
func (i *InstrumentedIndex) Execute(ctx context.Context, p plan.Plan) (result.RawPage, error) {
	start := time.Now()
	page, err := i.inner.Execute(ctx, p)
	duration := i.observe("search", start, err)

	log := i.log(ctx)
	if err != nil {
		log.Error("Index search failed",
			zap.String("backend", i.backend),
			zap.Bool("text", p.Text != nil),
			zap.Bool("geo", p.Geo != nil),
			zap.Stringer("sort", p.Sort.Kind),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return result.RawPage{}, err
	}

	metrics.SearchHits.WithLabelValues(i.backend, p.Sort.Kind.String()).Observe(float64(page.Total))
	log.Debug("Index search completed",
		zap.String("backend", i.backend),
		zap.Bool("text", p.Text != nil),
		zap.Bool("geo", p.Geo != nil),
		zap.Stringer("sort", p.Sort.Kind),
		zap.Int("page", p.Page),
		zap.Int("size", p.Size),
		zap.Int("hits", len(page.Hits)),
		zap.Int("total", page.Total),
		zap.Duration("duration", duration),
	)
	return page, nil
}

// Save stores the listing on the inner index.
func (i *InstrumentedIndex) Save(ctx context.Context, l *domlisting.Listing) error {
	start := time.Now()
	err := i.inner.Save(ctx, l)
	duration := i.observe("save", start, err)
	if err != nil {
		i.log(ctx).Error("Index save failed",
			zap.String("backend", i.backend),
			zap.String("id", l.ID()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}
	return err //nolint:wrapcheck // transparent decorator
}

// Get fetches a listing by id. A miss is recorded as not_found, not as an error.
func (i *InstrumentedIndex) Get(ctx context.Context, id string) (domlisting.Listing, error) {
	start := time.Now()
	l, err := i.inner.Get(ctx, id)
	duration := i.observe("get", start, err)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		i.log(ctx).Error("Index get failed",
			zap.String("backend", i.backend),
			zap.String("id", id),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}
	return l, err //nolint:wrapcheck // transparent decorator
}

// Count returns the number of stored listings.
func (i *InstrumentedIndex) Count(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := i.inner.Count(ctx)
	i.observe("count", start, err)
	return n, err //nolint:wrapcheck // transparent decorator
}

// Ping checks backend reachability.
func (i *InstrumentedIndex) Ping(ctx context.Context) error {
	start := time.Now()
	err := i.inner.Ping(ctx)
	i.observe("ping", start, err)
	return err //nolint:wrapcheck // transparent decorator
}

func (i *InstrumentedIndex) observe(op string, start time.Time, err error) time.Duration {
	duration := time.Since(start)
	status := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		status = "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		status = "timeout"
	default:
		status = "error"
	}
	metrics.IndexRequestsTotal.WithLabelValues(i.backend, op, status).Inc()
	metrics.IndexRequestDuration.WithLabelValues(i.backend, op).Observe(duration.Seconds())
	return duration
}

// log prefers the request-scoped logger so entries carry the request id.
func (i *InstrumentedIndex) log(ctx context.Context) *zap.Logger {
	return logger.Or(ctx, i.logger)
}
