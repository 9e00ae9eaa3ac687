package testsupport

import (
	"path/filepath"
	"testing"

	"mediabridge/internal/config"
)

// ConfigOption mutates the config built by NewConfig. Options run in order
// after the temp-dir defaults are applied.
type ConfigOption func(t testing.TB, base string, cfg *config.Config)

// NewConfig returns a default config whose log directory and socket live
// under a fresh t.TempDir. HTTP binds to an ephemeral loopback port and the
// encoder search paths are cleared so host installs never leak in.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Server.HTTPBind = "127.0.0.1:0"
	cfg.Server.SocketPath = filepath.Join(base, "mb.sock")
	cfg.Encoder.SearchPaths = nil

	for _, opt := range opts {
		opt(t, base, &cfg)
	}
	return &cfg
}

// WithStubEncoder installs a stub encoder under <base>/bin and points
// encoder.binary at it.
func WithStubEncoder(behavior EncoderBehavior) ConfigOption {
	return func(t testing.TB, base string, cfg *config.Config) {
		cfg.Encoder.Binary = WriteStubEncoder(t, filepath.Join(base, "bin"), behavior).Path
	}
}

// WithMissingEncoder points encoder.binary at a name nothing resolves.
func WithMissingEncoder() ConfigOption {
	return func(_ testing.TB, _ string, cfg *config.Config) {
		cfg.Encoder.Binary = "mediabridge-missing-encoder"
	}
}

// BaseDir returns the temp root NewConfig allocated for cfg.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
