// Package metrics exposes Prometheus collectors for the extractor service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	extractionsTotal   *prometheus.CounterVec
	extractionAttempts prometheus.Histogram
	stageFailuresTotal *prometheus.CounterVec
	acquisitionsTotal  *prometheus.CounterVec
	sinkAppendsTotal   *prometheus.CounterVec
	httpRequestsTotal  *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		extractionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extractor_extractions_total",
				Help: "Total pipeline executions, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		extractionAttempts = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "extractor_extraction_attempts",
				Help:    "Attempts needed per pipeline execution.",
				Buckets: []float64{1, 2, 3},
			},
		)

		stageFailuresTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extractor_stage_failures_total",
				Help: "Stage failures, labeled by stage.",
			},
			[]string{"stage"},
		)

		acquisitionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extractor_acquisitions_total",
				Help: "Successful acquisitions, labeled by method.",
			},
			[]string{"method"},
		)

		sinkAppendsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extractor_sink_appends_total",
				Help: "Record rows appended to the sink, labeled by status.",
			},
			[]string{"status"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "extractor_http_requests_total",
				Help: "Boundary HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)
	})
}

// ObserveExtraction records one finished pipeline execution.
func ObserveExtraction(outcome string, attempts int) {
	if extractionsTotal == nil {
		return
	}
	extractionsTotal.WithLabelValues(outcome).Inc()
	extractionAttempts.Observe(float64(attempts))
}

// ObserveStageFailure counts a failure of the named pipeline stage.
func ObserveStageFailure(stage string) {
	if stageFailuresTotal == nil {
		return
	}
	stageFailuresTotal.WithLabelValues(stage).Inc()
}

// ObserveAcquisition counts a successful acquisition by method.
func ObserveAcquisition(method string) {
	if acquisitionsTotal == nil {
		return
	}
	acquisitionsTotal.WithLabelValues(method).Inc()
}

// ObserveSinkAppend counts one sink append by status.
func ObserveSinkAppend(status string) {
	if sinkAppendsTotal == nil {
		return
	}
	sinkAppendsTotal.WithLabelValues(status).Inc()
}

// ObserveHTTPRequest counts a boundary HTTP request.
func ObserveHTTPRequest(method, code string) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, code).Inc()
}
