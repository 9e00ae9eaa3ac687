// Package metrics declares the Prometheus collectors mediabridge exports.
//
// Collectors are registered with the default registry on package init through
// promauto, so any process that imports this package and serves
// promhttp.Handler exposes them.
//
// Conversion metrics:
//   - ConversionsTotal: conversions by output format and outcome kind
//   - ConversionDuration: wall time of finished conversions by format
//   - ConversionsInProgress: encoder processes currently running
//   - OutputBytesTotal: bytes written by successful conversions
//
// Tool metrics:
//   - ToolCallsTotal: tool invocations by tool, transport, and status
//   - ToolAdmissionWait: time spent waiting for a conversion slot
//
// HTTP metrics:
//   - HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight
package metrics
