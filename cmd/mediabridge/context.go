package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"mediabridge/internal/config"
	"mediabridge/internal/ipc"
	"mediabridge/internal/logging"
	"mediabridge/internal/services"
)

// globalFlags holds the persistent root flags.
type globalFlags struct {
	socket   string
	config   string
	logLevel string
}

// commandContext is shared by every subcommand. The config is loaded at most
// once per process, on first use.
type commandContext struct {
	flags globalFlags

	loadOnce sync.Once
	cfg      *config.Config
	cfgErr   error
}

func (c *commandContext) configPath() string { return strings.TrimSpace(c.flags.config) }

func (c *commandContext) logLevel() string { return strings.TrimSpace(c.flags.logLevel) }

// explicitSocket returns the --socket value, or "" when the flag was not set.
func (c *commandContext) explicitSocket() string { return strings.TrimSpace(c.flags.socket) }

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.loadOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.cfgErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if level := c.logLevel(); level != "" {
			cfg.Logging.Level = level
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.cfgErr = err
			return
		}
		c.cfg = cfg
	})
	return c.cfg, c.cfgErr
}

// configValue returns the loaded config, or nil when loading failed.
func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// logger builds a logger that never writes to stdout, which carries command
// output and, for serve stdio, the MCP stream.
func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg, true)
}

// socketPath prefers --socket, then the config, then the default log
// directory so offline commands still name a path.
func (c *commandContext) socketPath() string {
	if socket := c.explicitSocket(); socket != "" {
		return socket
	}
	if cfg := c.configValue(); cfg != nil {
		return cfg.SocketPath()
	}
	if dir, err := config.ExpandPath("~/.local/share/mediabridge/logs"); err == nil {
		return filepath.Join(dir, "mediabridge.sock")
	}
	return filepath.Join(os.TempDir(), "mediabridge.sock")
}

func (c *commandContext) withClient(fn func(*ipc.Client) error) error {
	client, err := c.dialClient()
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(client)
}

func (c *commandContext) dialClient() (*ipc.Client, error) {
	socket := c.socketPath()
	client, err := ipc.Dial(socket)
	if err != nil {
		return nil, wrapDialError(err, socket)
	}
	return client, nil
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, unix.ENOENT), errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("connect to daemon: socket %s not found; start the daemon with `mediabridge start`", socket)
	case errors.Is(err, unix.ECONNREFUSED):
		return fmt.Errorf("connect to daemon: socket %s refused the connection; verify the daemon is running", socket)
	default:
		return fmt.Errorf("connect to daemon: %w", err)
	}
}

// shouldSkipConfig reports whether cmd or an ancestor is annotated with
// skipConfigLoad, for commands that must work with a broken config.
func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
