package preflight

import (
	"context"

	"mediabridge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
	// Hint suggests a remedy for failed checks.
	Hint string `json:"hint,omitempty"`
	// Advisory results never fail the overall run.
	Advisory bool `json:"advisory,omitempty"`
}

// RunAll executes the preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckEncoder(ctx, cfg)}
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckHost(ctx))
	return results
}

// Passed reports whether every non-advisory result passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Advisory {
			return false
		}
	}
	return true
}
