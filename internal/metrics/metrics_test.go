package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestConversionMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric prometheus.Collector
	}{
		{"ConversionsTotal", ConversionsTotal},
		{"ConversionDuration", ConversionDuration},
		{"ConversionsInProgress", ConversionsInProgress},
		{"OutputBytesTotal", OutputBytesTotal},
		{"ToolCallsTotal", ToolCallsTotal},
		{"ToolAdmissionWait", ToolAdmissionWait},
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestConversionsTotalLabels(t *testing.T) {
	counter := ConversionsTotal.WithLabelValues("mkv", "success")
	before := readCounter(t, counter)
	counter.Inc()
	if got := readCounter(t, counter); got != before+1 {
		t.Fatalf("counter = %v, want %v", got, before+1)
	}
}

func readCounter(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}
