package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	propagationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sattosat_propagations_total",
			Help: "Total number of SGP4 propagation calls.",
		},
	)

	propagationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sattosat_propagation_failures_total",
			Help: "Total number of failed SGP4 propagation calls.",
		},
	)

	scanDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sattosat_scan_duration_seconds",
			Help:    "Duration of conjunction scans in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		},
	)

	conjunctionsFoundTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sattosat_conjunctions_found_total",
			Help: "Total number of refined conjunction events found.",
		},
	)

	samplesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sattosat_separation_samples_total",
			Help: "Total number of separation samples produced.",
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sattosat_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sattosat_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
)

func init() {
	prometheus.MustRegister(propagationsTotal)
	prometheus.MustRegister(propagationFailuresTotal)
	prometheus.MustRegister(scanDurationSeconds)
	prometheus.MustRegister(conjunctionsFoundTotal)
	prometheus.MustRegister(samplesTotal)
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
}

// RecordPropagation counts one propagation call and whether it succeeded.
func RecordPropagation(ok bool) {
	propagationsTotal.Inc()
	if !ok {
		propagationFailuresTotal.Inc()
	}
}

// RecordScan records the duration of a completed scan and the events it found.
func RecordScan(d time.Duration, events int) {
	scanDurationSeconds.Observe(d.Seconds())
	conjunctionsFoundTotal.Add(float64(events))
}

// RecordSamples counts separation samples produced by the sampler.
func RecordSamples(n int) {
	samplesTotal.Add(float64(n))
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// knownRoutes are the fixed routes the server exposes; anything else is
// labeled "other" to keep metric cardinality bounded against bot traffic.
var knownRoutes = map[string]bool{
	"/healthz":              true,
	"/readyz":               true,
	"/metrics":              true,
	"/api/v1/pairs":         true,
	"/api/v1/conjunctions":  true,
	"/api/v1/envelope":      true,
}

func normalizeRoute(path string) string {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		path = "/"
	}
	if path == "/" || knownRoutes[path] {
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		route := normalizeRoute(r.URL.Path)
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
