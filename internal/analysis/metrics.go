package analysis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/runixer/rhetoric/internal/origin"
)

const metricsNamespace = "rhetoric"

const (
	outcomeSuccess      = "success"
	outcomeNetworkError = "network_error"
	outcomeHTTPError    = "http_error"
	outcomeDecodeError  = "decode_error"
)

var (
	// backendRequestDuration measures analyze calls end to end, upload included.
	// Labels:
	//   - origin: web, cli
	//   - outcome: success, network_error, http_error, decode_error
	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Duration of analysis backend requests in seconds",
			// Video analysis is slow: 1s - 10min
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 300, 600},
		},
		[]string{"origin", "outcome"},
	)

	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total number of analysis backend requests",
		},
		[]string{"origin", "outcome"},
	)

	backendUploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "backend",
			Name:      "upload_bytes_total",
			Help:      "Total multipart bytes uploaded to the analysis backend",
		},
	)
)

// RecordRequest records one finished analyze call.
func RecordRequest(o origin.Origin, outcome string, durationSeconds float64) {
	backendRequestDuration.WithLabelValues(o.String(), outcome).Observe(durationSeconds)
	backendRequestsTotal.WithLabelValues(o.String(), outcome).Inc()
}

// RecordUploadBytes records the size of a fully written upload body.
func RecordUploadBytes(n int64) {
	backendUploadBytesTotal.Add(float64(n))
}
