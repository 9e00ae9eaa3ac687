package services

import (
	"errors"
	"fmt"
	"strings"
)

// Markers classify errors for exit codes and user-facing hints. Match them
// with errors.Is.
var (
	ErrValidation    = errors.New("validation error")    // bad caller input
	ErrConfiguration = errors.New("configuration error") // config or environment unusable
	ErrNotFound      = errors.New("not found")
	ErrExternalTool  = errors.New("external tool error") // encoder ran and failed
	ErrTransient     = errors.New("transient failure")   // timeouts, cancellation, unreachable daemon
)

// Wrap formats "<marker>: component: operation: message[: err]" and keeps
// both marker and err reachable through errors.Is. A nil marker means
// ErrTransient.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps an error to a process exit status: 2 for caller mistakes,
// 1 for everything else, 0 for nil.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return 2
	default:
		return 1
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{component, operation, message} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
