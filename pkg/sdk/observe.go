package bizdex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizdex",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "Total SDK operations by backend, operation and outcome.",
		}, []string{"backend", "operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bizdex",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK operation duration in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"backend", "operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("bizdex: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("bizdex: register metric: %w", err)
	}
	return nil
}

// observer provides logging and metrics for SDK operations.
type observer struct {
	backend string
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(backend string, logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{backend: backend, logger: logger, metrics: m}, nil
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := outcome(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(o.backend, op, status).Inc()
		o.metrics.duration.WithLabelValues(o.backend, op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	attrs := []any{"op", op, "backend", o.backend, "duration", dur}
	switch status {
	case "ok":
		o.logger.Debug("operation completed", attrs...)
	case "not_found", "invalid":
		o.logger.Debug("operation rejected", append(attrs, "error", err)...)
	default:
		o.logger.Warn("operation failed", append(attrs, "error", err)...)
	}
}

// outcome classifies an error for metric labels; caller mistakes are kept apart from backend failures.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrAlreadyExists):
		return "invalid"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
