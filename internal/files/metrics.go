package files

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "rhetoric"

var (
	// fileSelectionsTotal counts accepted selections.
	// Labels:
	//   - source: upload or path
	fileSelectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "file",
			Name:      "selections_total",
			Help:      "Total number of selected video files",
		},
		[]string{"source"},
	)

	// fileSizeBytes measures selected video sizes.
	// Labels:
	//   - source: upload or path
	fileSizeBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "file",
			Name:      "size_bytes",
			Help:      "Size of selected video files in bytes",
			// 1MB, 5MB, 10MB, 25MB, 50MB, 100MB, 250MB, 500MB
			Buckets: []float64{1048576, 5242880, 10485760, 26214400, 52428800, 104857600, 262144000, 524288000},
		},
		[]string{"source"},
	)
)

// RecordSelection records metrics for one accepted selection.
func RecordSelection(source Source, sizeBytes int64) {
	fileSelectionsTotal.WithLabelValues(string(source)).Inc()
	if sizeBytes > 0 {
		fileSizeBytes.WithLabelValues(string(source)).Observe(float64(sizeBytes))
	}
}
