package ipc

import (
	"mediabridge/internal/api"
	"mediabridge/internal/convert"
	"mediabridge/internal/deps"
	"mediabridge/internal/formats"
)

// ServiceName is the RPC service name registered by the server.
const ServiceName = "MediaBridge"

// ConvertRequest asks the daemon to run one conversion.
type ConvertRequest struct {
	Request convert.Request `json:"request"`
}

// ConvertResponse carries the conversion outcome.
type ConvertResponse struct {
	Result convert.Response `json:"result"`
}

// FormatsRequest fetches the supported format table.
type FormatsRequest struct{}

// FormatsResponse contains the supported format table.
type FormatsResponse struct {
	Table formats.Table `json:"table"`
}

// EncoderCheckRequest probes the configured encoder.
type EncoderCheckRequest struct{}

// EncoderCheckResponse reports the encoder probe.
type EncoderCheckResponse struct {
	Encoder deps.EncoderInfo `json:"encoder"`
}

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// StatusResponse represents daemon status information.
type StatusResponse struct {
	Status api.DaemonStatus `json:"status"`
}

// ShutdownRequest asks the daemon process to exit.
type ShutdownRequest struct{}

// ShutdownResponse indicates whether shutdown was accepted.
type ShutdownResponse struct {
	Accepted bool `json:"accepted"`
}
