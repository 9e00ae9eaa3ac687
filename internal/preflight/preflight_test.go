package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediabridge/internal/api"
	"mediabridge/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckEncoder_Stub(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubEncoder(testsupport.EncoderWritesOutput))
	result := CheckEncoder(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected encoder check to pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, testsupport.StubVersionLine) {
		t.Fatalf("expected version line in detail, got %q", result.Detail)
	}
}

func TestCheckEncoder_Missing(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMissingEncoder())
	result := CheckEncoder(context.Background(), cfg)
	if result.Passed {
		t.Fatal("expected encoder check to fail")
	}
	if result.Detail != "FFmpeg not found in system PATH." {
		t.Fatalf("unexpected detail: %q", result.Detail)
	}
	if result.Hint == "" {
		t.Fatal("expected install hint")
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMissingEncoder())
	statuses := CheckSystemDeps(cfg)
	if len(statuses) != 1 {
		t.Fatalf("expected 1 status, got %d", len(statuses))
	}
	if statuses[0].Available {
		t.Fatal("expected missing encoder to be unavailable")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll(t *testing.T) {
	prev := api.CPUSampleWindow
	api.CPUSampleWindow = 0
	t.Cleanup(func() { api.CPUSampleWindow = prev })

	cfg := testsupport.NewConfig(t, testsupport.WithStubEncoder(testsupport.EncoderWritesOutput))
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !Passed(results) {
		for _, r := range results {
			t.Logf("%s passed=%v advisory=%v: %s", r.Name, r.Passed, r.Advisory, r.Detail)
		}
		t.Fatal("expected required checks to pass")
	}
	if !results[2].Advisory {
		t.Fatal("expected host check to be advisory")
	}
}

func TestPassedIgnoresAdvisory(t *testing.T) {
	results := []Result{
		{Name: "required", Passed: true},
		{Name: "host", Advisory: true},
	}
	if !Passed(results) {
		t.Fatal("advisory failures must not fail the run")
	}
	results = append(results, Result{Name: "encoder"})
	if Passed(results) {
		t.Fatal("expected required failure to fail the run")
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[uint64]string{
		512:     "512 B",
		2048:    "2.0 KiB",
		1 << 30: "1.0 GiB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Fatalf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
