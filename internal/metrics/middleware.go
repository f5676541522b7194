package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const unmatchedRoute = "unknown"

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizdex",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizdex",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpResponseBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizdex",
			Name:      "http_response_size_bytes",
			Help:      "Response body size; search pages dominate the upper buckets",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		},
		[]string{"route"},
	)

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bizdex",
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served",
		},
	)

	httpRateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bizdex",
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestDuration, httpRequestsTotal, httpResponseBytes, httpInFlight, httpRateLimitedTotal)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler { return promhttp.Handler() }

// RecordRateLimited counts a request rejected with 429.
func RecordRateLimited() { httpRateLimitedTotal.Inc() }

// Middleware records request count, latency and response size per chi route pattern.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpInFlight.Inc()
			defer httpInFlight.Dec()

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := routeLabel(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			code := strconv.Itoa(status)

			httpRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
			httpResponseBytes.WithLabelValues(route).Observe(float64(ww.BytesWritten()))
		})
	}
}

// routeLabel uses the matched chi pattern so listing ids never become label values.
func routeLabel(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return unmatchedRoute
}
