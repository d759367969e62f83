package view

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "rhetoric"

const (
	outcomeValidation = "validation_error"
	outcomeFailure    = "failure"
	outcomeSuccess    = "success"
)

// viewSubmitsTotal counts submit attempts by outcome.
var viewSubmitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "view",
		Name:      "submits_total",
		Help:      "Total number of analyze submits by outcome",
	},
	[]string{"outcome"},
)

func recordSubmit(outcome string) {
	viewSubmitsTotal.WithLabelValues(outcome).Inc()
}
