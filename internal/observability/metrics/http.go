package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/study-assistant/internal/core/ports"
)

type HTTPServerMetrics struct {
	service  string
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	gatewayRequestsTotal *prometheus.CounterVec
	gatewayDuration      *prometheus.HistogramVec
	contextChars         *prometheus.HistogramVec
	contextTruncated     *prometheus.CounterVec
}

var _ ports.PipelineObserver = (*HTTPServerMetrics)(nil)

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "study",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "study",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds, streams included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "study",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	gatewayRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "study",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Model gateway calls by operation and outcome.",
		},
		[]string{"service", "operation", "outcome"},
	)
	gatewayDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "study",
			Subsystem: "gateway",
			Name:      "duration_seconds",
			Help:      "Time until the gateway answered; for streams, until headers arrived.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"service", "operation"},
	)
	contextChars := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "study",
			Subsystem: "context",
			Name:      "chars",
			Help:      "Characters of document context sent per request.",
			Buckets:   []float64{0, 1000, 5000, 10000, 20000, 30000, 40000, 50000},
		},
		[]string{"service", "operation"},
	)
	contextTruncated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "study",
			Subsystem: "context",
			Name:      "truncated_total",
			Help:      "Requests whose document context hit the total cap.",
		},
		[]string{"service", "operation"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		gatewayRequestsTotal,
		gatewayDuration,
		contextChars,
		contextTruncated,
	)

	return &HTTPServerMetrics{
		service:              service,
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		gatewayRequestsTotal: gatewayRequestsTotal,
		gatewayDuration:      gatewayDuration,
		contextChars:         contextChars,
		contextTruncated:     contextTruncated,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		path := normalizePath(r.URL.Path)
		m.requestTotal.WithLabelValues(
			m.service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(m.service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath folds unknown paths into one label value.
func normalizePath(path string) string {
	switch path {
	case "/v1/study-chat", "/v1/analyze-pyq", "/healthz", "/metrics", "/openapi.json":
		return path
	default:
		return "other"
	}
}

func (m *HTTPServerMetrics) ObserveContext(operation string, chars int, truncated bool) {
	m.contextChars.WithLabelValues(m.service, operation).Observe(float64(chars))
	if truncated {
		m.contextTruncated.WithLabelValues(m.service, operation).Inc()
	}
}

func (m *HTTPServerMetrics) ObserveGatewayCall(operation, outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.gatewayRequestsTotal.WithLabelValues(m.service, operation, outcome).Inc()
	m.gatewayDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
