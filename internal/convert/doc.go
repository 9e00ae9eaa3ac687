// Package convert translates conversion requests into encoder invocations,
// supervises the encoder process, and verifies its output.
//
// The flow is Builder (validate request, pick a collision-free output path,
// assemble argv) followed by Supervisor (launch, wait, classify the exit,
// verify the output file). Service ties both together with the configured
// timeout, logging, and metrics. Every outcome is returned as a Result; no
// failure escapes as a panic or a bare error.
package convert
