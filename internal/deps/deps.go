package deps

import (
	"fmt"
	"strings"
)

// Requirement names an executable mediabridge shells out to. Optional
// requirements only produce warnings when absent.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	SearchPaths []string
}

// Status is the resolved state of one Requirement.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Path        string `json:"path,omitempty"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// CheckBinaries resolves every requirement, preserving input order.
func CheckBinaries(requirements []Requirement) []Status {
	out := make([]Status, len(requirements))
	for i, req := range requirements {
		out[i] = check(req)
	}
	return out
}

func check(req Requirement) Status {
	st := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	switch path, err := Locate(st.Command, req.SearchPaths); {
	case st.Command == "":
		st.Detail = "command not configured"
	case err != nil:
		st.Detail = fmt.Sprintf("%q not found on PATH or search paths", st.Command)
	default:
		st.Path, st.Available = path, true
	}
	return st
}
