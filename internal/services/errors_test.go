package services_test

import (
	"errors"
	"strings"
	"testing"

	"mediabridge/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "deps", "probe", "failed", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"deps", "probe", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestExitCodeMapping(t *testing.T) {
	if code := services.ExitCode(services.Wrap(services.ErrValidation, "cli", "convert", "bad flag", nil)); code != 2 {
		t.Fatalf("expected 2 for validation error, got %d", code)
	}
	if code := services.ExitCode(services.Wrap(services.ErrTransient, "apiclient", "post", "", errors.New("io"))); code != 1 {
		t.Fatalf("expected 1 for transient error, got %d", code)
	}
	if code := services.ExitCode(nil); code != 0 {
		t.Fatalf("expected 0 for nil, got %d", code)
	}
}
