package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Encoder describes the external command-line encoder.
type Encoder struct {
	Binary         string   `toml:"binary"`
	Name           string   `toml:"name"`
	SearchPaths    []string `toml:"search_paths"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Output controls where converted files are written.
type Output struct {
	DirName         string `toml:"dir_name"`
	Suffix          string `toml:"suffix"`
	ReserveInFlight bool   `toml:"reserve_in_flight"`
}

// Server contains bind addresses and admission limits for the daemon.
type Server struct {
	HTTPBind      string `toml:"http_bind"`
	SocketPath    string `toml:"socket_path"`
	MaxConcurrent int    `toml:"max_concurrent"`
	APIToken      string `toml:"api_token"`
}

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mediabridge.
//
// Configuration sections by subsystem:
//   - Encoder: encoder binary, display name, lookup paths, timeout
//   - Output: output directory name, filename suffix, in-flight reservation
//   - Server: HTTP bind, IPC socket, concurrency cap, API token
//   - Paths: log directory
//   - Logging: log format and level
type Config struct {
	Encoder Encoder `toml:"encoder"`
	Output  Output  `toml:"output"`
	Server  Server  `toml:"server"`
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the expanded per-user config file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// Load resolves the config file (explicit path, per-user default, then
// ./mediabridge.toml), overlays it on Default, normalizes and validates.
// It also reports the resolved path and whether that file existed; a
// missing file is not an error.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		explicit, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		switch _, err := os.Stat(explicit); {
		case err == nil:
			return explicit, true, nil
		case errors.Is(err, fs.ErrNotExist):
			return explicit, false, nil
		default:
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}

	userPath, err := ExpandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(defaultProjectConfigName)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if isFile(candidate) {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// EnsureDirectories creates the log directory, which also holds the default
// socket, lock and pid files.
func (c *Config) EnsureDirectories() error {
	dir := strings.TrimSpace(c.Paths.LogDir)
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory %q: %w", dir, err)
	}
	return nil
}

// EncoderTimeout returns the per-conversion deadline, or zero when unbounded.
func (c *Config) EncoderTimeout() time.Duration {
	if c.Encoder.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Encoder.TimeoutSeconds) * time.Second
}

// SocketPath returns the IPC socket location, defaulting to the log directory.
func (c *Config) SocketPath() string {
	if p := strings.TrimSpace(c.Server.SocketPath); p != "" {
		return p
	}
	return filepath.Join(c.Paths.LogDir, defaultSocketName)
}

// LockPath returns the daemon single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "mediabridged.lock")
}

// PIDPath returns the file the daemon records its process id in.
func (c *Config) PIDPath() string {
	return filepath.Join(c.Paths.LogDir, "mediabridged.pid")
}

// ExpandPath resolves a leading ~ to the home directory and returns an
// absolute, cleaned path. Empty input stays empty.
func ExpandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, strings.TrimPrefix(value[1:], "/"))
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return abs, nil
}

// CreateSample writes the commented sample configuration to path, creating
// parent directories.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
