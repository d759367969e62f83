package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики веб-сервера:
// - время и количество HTTP запросов по handler/method/status
// - число активных сессий страницы загрузки

var (
	// httpRequestDuration измеряет время выполнения HTTP запросов.
	// Labels:
	//   - handler: index, select, analyze, healthz
	//   - method: HTTP метод (GET, POST)
	//   - status: HTTP status code (200, 303, 413)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			// select буферизует загрузку целиком, поэтому верхние бакеты длиннее
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"handler", "method", "status"},
	)

	// httpRequestsTotal считает количество HTTP запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	// activeSessions показывает число сессий в памяти.
	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "web",
			Name:      "active_sessions",
			Help:      "Number of browser sessions currently held in memory",
		},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// instrumentHandler записывает метрики для HTTP запросов.
// name используется как label для идентификации endpoint'а.
func instrumentHandler(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestDuration.WithLabelValues(name, r.Method, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(name, r.Method, status).Inc()
	}
}
