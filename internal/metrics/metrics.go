package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conversion metrics
var (
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediabridge_conversions_total",
			Help: "Total number of conversions by output format and result",
		},
		[]string{"format", "result"},
	)

	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediabridge_conversion_duration_seconds",
			Help:    "Conversion duration in seconds",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"format"},
	)

	ConversionsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mediabridge_conversions_in_progress",
			Help: "Number of encoder processes currently running",
		},
	)

	OutputBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediabridge_output_bytes_total",
			Help: "Bytes written by successful conversions",
		},
		[]string{"format"},
	)
)

// Tool metrics
var (
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediabridge_tool_calls_total",
			Help: "Total number of tool invocations",
		},
		[]string{"tool", "transport", "status"}, // status: ok, error
	)

	ToolAdmissionWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mediabridge_tool_admission_wait_seconds",
			Help:    "Time spent waiting for a free conversion slot",
			Buckets: []float64{0.001, 0.01, 0.1, 1, 5, 30, 120},
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediabridge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediabridge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mediabridge_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)
