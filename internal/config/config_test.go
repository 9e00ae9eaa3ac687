package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mediabridge/internal/config"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEDIABRIDGE_ENCODER", "")

	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("resolved path = %q, want %q", resolved, path)
	}
	if cfg.Encoder.Binary != "ffmpeg" || cfg.Encoder.Name != "FFmpeg" {
		t.Fatalf("unexpected encoder defaults: %+v", cfg.Encoder)
	}
	if cfg.Output.DirName != "converted_videos" || cfg.Output.Suffix != "_converted" || !cfg.Output.ReserveInFlight {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Server.MaxConcurrent != 2 {
		t.Fatalf("max_concurrent = %d, want 2", cfg.Server.MaxConcurrent)
	}
	if !filepath.IsAbs(cfg.Paths.LogDir) {
		t.Fatalf("log dir not expanded: %q", cfg.Paths.LogDir)
	}
	if cfg.EncoderTimeout() != 0 {
		t.Fatalf("expected unbounded timeout, got %v", cfg.EncoderTimeout())
	}
}

func TestLoadCustomPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MEDIABRIDGE_ENCODER", "")

	payload := struct {
		Encoder map[string]any `toml:"encoder"`
		Output  map[string]any `toml:"output"`
		Server  map[string]any `toml:"server"`
		Paths   map[string]any `toml:"paths"`
		Logging map[string]any `toml:"logging"`
	}{
		Encoder: map[string]any{"binary": "~/bin/ffmpeg", "timeout_seconds": 90},
		Output:  map[string]any{"dir_name": "out", "suffix": "_x", "reserve_in_flight": false},
		Server:  map[string]any{"socket_path": "~/mb.sock", "max_concurrent": 4},
		Paths:   map[string]any{"log_dir": "~/logs"},
		Logging: map[string]any{"format": "JSON", "level": "Debug"},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected existing config at %q, got %q (exists=%v)", path, resolved, exists)
	}
	if want := filepath.Join(home, "bin", "ffmpeg"); cfg.Encoder.Binary != want {
		t.Fatalf("encoder binary = %q, want %q", cfg.Encoder.Binary, want)
	}
	if cfg.EncoderTimeout().Seconds() != 90 {
		t.Fatalf("timeout = %v", cfg.EncoderTimeout())
	}
	if cfg.Output.DirName != "out" || cfg.Output.Suffix != "_x" || cfg.Output.ReserveInFlight {
		t.Fatalf("unexpected output section: %+v", cfg.Output)
	}
	if want := filepath.Join(home, "mb.sock"); cfg.SocketPath() != want {
		t.Fatalf("socket path = %q, want %q", cfg.SocketPath(), want)
	}
	if want := filepath.Join(home, "logs", "mediabridged.lock"); cfg.LockPath() != want {
		t.Fatalf("lock path = %q, want %q", cfg.LockPath(), want)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
}

func TestEncoderEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MEDIABRIDGE_ENCODER", "/opt/ffmpeg/bin/ffmpeg")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Encoder.Binary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("encoder binary = %q", cfg.Encoder.Binary)
	}
}

func TestSocketPathDefaultsToLogDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = "/var/log/mb"
	if got := cfg.SocketPath(); got != "/var/log/mb/mediabridge.sock" {
		t.Fatalf("socket path = %q", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "converted_videos") {
		t.Fatalf("sample config missing output dir default")
	}
	var parsed config.Config
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample config is not valid TOML: %v", err)
	}
	if parsed.Encoder.Binary != "ffmpeg" || parsed.Server.MaxConcurrent != 2 {
		t.Fatalf("sample config drifted from defaults: %+v", parsed)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"negative timeout", func(c *config.Config) { c.Encoder.TimeoutSeconds = -1 }, "encoder.timeout_seconds"},
		{"nested dir name", func(c *config.Config) { c.Output.DirName = "a/b" }, "output.dir_name"},
		{"suffix separator", func(c *config.Config) { c.Output.Suffix = "/x" }, "output.suffix"},
		{"negative concurrency", func(c *config.Config) { c.Server.MaxConcurrent = -3 }, "server.max_concurrent"},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate() = %v, want error mentioning %q", err, tc.want)
			}
		})
	}
}
