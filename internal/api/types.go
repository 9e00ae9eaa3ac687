package api

import (
	"mediabridge/internal/deps"
)

// DependencyStatus captures availability of an external dependency.
type DependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Path        string `json:"path,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// FromDependencyStatuses converts probe results to their API form.
func FromDependencyStatuses(statuses []deps.Status) []DependencyStatus {
	out := make([]DependencyStatus, len(statuses))
	for i, s := range statuses {
		out[i] = DependencyStatus{
			Name:        s.Name,
			Command:     s.Command,
			Description: s.Description,
			Optional:    s.Optional,
			Available:   s.Available,
			Path:        s.Path,
			Detail:      s.Detail,
		}
	}
	return out
}

// HostStats is a point-in-time resource snapshot of the daemon host.
type HostStats struct {
	CPUPercent      float64 `json:"cpuPercent"`
	MemoryPercent   float64 `json:"memoryPercent"`
	MemoryTotal     uint64  `json:"memoryTotal"`
	MemoryAvailable uint64  `json:"memoryAvailable"`
	Busy            bool    `json:"busy"`
	Error           string  `json:"error,omitempty"`
}

// DaemonStatus aggregates daemon runtime information for API consumers.
type DaemonStatus struct {
	Running       bool               `json:"running"`
	PID           int                `json:"pid"`
	Version       string             `json:"version,omitempty"`
	UptimeSeconds float64            `json:"uptimeSeconds"`
	LockFilePath  string             `json:"lockFilePath"`
	SocketPath    string             `json:"socketPath,omitempty"`
	HTTPBind      string             `json:"httpBind,omitempty"`
	InFlight      int                `json:"inFlight"`
	MaxConcurrent int                `json:"maxConcurrent"`
	Encoder       deps.EncoderInfo   `json:"encoder"`
	Dependencies  []DependencyStatus `json:"dependencies"`
	Host          HostStats          `json:"host"`
}
