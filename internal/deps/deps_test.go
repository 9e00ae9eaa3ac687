package deps

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	writeScript(t, present, "exit 0")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestLocateFallsBackToSearchPaths(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	extra := t.TempDir()
	target := filepath.Join(extra, "mb-encoder")
	writeScript(t, target, "exit 0")

	got, err := Locate("mb-encoder", []string{"", filepath.Join(extra, "missing"), extra})
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if got != target {
		t.Fatalf("Locate = %q, want %q", got, target)
	}
}

func TestLocatePrefersPath(t *testing.T) {
	pathDir := t.TempDir()
	extra := t.TempDir()
	writeScript(t, filepath.Join(pathDir, "mb-encoder"), "exit 0")
	writeScript(t, filepath.Join(extra, "mb-encoder"), "exit 0")
	t.Setenv("PATH", pathDir)

	got, err := Locate("mb-encoder", []string{extra})
	if err != nil {
		t.Fatalf("Locate returned error: %v", err)
	}
	if got != filepath.Join(pathDir, "mb-encoder") {
		t.Fatalf("Locate = %q, want PATH entry", got)
	}
}

func TestLocateRejectsMissingAndNonExecutable(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if _, err := Locate("mb-absent", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	plain := filepath.Join(t.TempDir(), "plain")
	if err := os.WriteFile(plain, []byte("data"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := Locate(plain, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-executable, got %v", err)
	}
	if got := LocateOrName("mb-absent", nil); got != "mb-absent" {
		t.Fatalf("LocateOrName = %q", got)
	}
}

func TestProbeEncoderReportsFirstLine(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	writeScript(t, bin, "echo 'ffmpeg version 7.1 Copyright'\necho 'built with gcc'")

	info := ProbeEncoder(context.Background(), "FFmpeg", bin, nil)
	if !info.Installed {
		t.Fatalf("expected installed, got %#v", info)
	}
	if info.Version != "ffmpeg version 7.1 Copyright" {
		t.Fatalf("version = %q", info.Version)
	}
}

func TestProbeEncoderFailures(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if info := ProbeEncoder(context.Background(), "FFmpeg", "mb-absent", nil); info.Installed || info.Error != "FFmpeg not found in system PATH." {
		t.Fatalf("expected not-installed result, got %#v", info)
	}

	bin := filepath.Join(t.TempDir(), "ffmpeg")
	writeScript(t, bin, "echo 'broken' >&2\nexit 1")
	info := ProbeEncoder(context.Background(), "FFmpeg", bin, nil)
	if info.Installed || info.Error != "FFmpeg found but version command failed: broken" {
		t.Fatalf("unexpected probe result %#v", info)
	}
}

func TestVersionFallsBackToStderr(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "encoder")
	writeScript(t, bin, "echo 'encoder 2.0' >&2")

	got, err := Version(context.Background(), bin)
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if got != "encoder 2.0" {
		t.Fatalf("Version = %q", got)
	}
}
