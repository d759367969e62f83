package testutil

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ScrapeMetrics serves GET /metrics from handler and returns the exposition text.
func ScrapeMetrics(t *testing.T, handler http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics endpoint returned status %d", rr.Code)
	}
	body, err := io.ReadAll(rr.Body)
	if err != nil {
		t.Fatalf("failed to read metrics body: %v", err)
	}
	return string(body)
}

// ParseMetricValue parses a single metric value from the metrics output.
// Returns the value and labels (if any) for the first matching metric.
func ParseMetricValue(metrics, metricName string) (string, map[string]string, error) {
	for _, line := range strings.Split(metrics, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") || line == "" {
			continue
		}
		if !strings.HasPrefix(line, metricName) {
			continue
		}

		// Format: metric_name{label1="value1",label2="value2"} value
		remaining := strings.TrimPrefix(line, metricName)
		if remaining != "" && remaining[0] != '{' && remaining[0] != ' ' {
			continue // longer metric name sharing the prefix
		}

		labels := make(map[string]string)
		if strings.HasPrefix(remaining, "{") {
			endBrace := strings.Index(remaining, "}")
			if endBrace == -1 {
				return "", nil, fmt.Errorf("invalid metric format: missing closing brace")
			}
			for _, labelPair := range strings.Split(remaining[1:endBrace], ",") {
				parts := strings.SplitN(labelPair, "=", 2)
				if len(parts) == 2 {
					labels[strings.TrimSpace(parts[0])] = strings.Trim(parts[1], `"`)
				}
			}
			remaining = remaining[endBrace+1:]
		}

		return strings.TrimSpace(remaining), labels, nil
	}

	return "", nil, fmt.Errorf("metric %q not found", metricName)
}

// AssertMetricExists asserts that a metric exists in the metrics output.
func AssertMetricExists(t *testing.T, metrics, metricName string) {
	t.Helper()
	if _, _, err := ParseMetricValue(metrics, metricName); err != nil {
		t.Fatalf("metric %q does not exist: %v", metricName, err)
	}
}
