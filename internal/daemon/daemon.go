package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"mediabridge/internal/api"
	"mediabridge/internal/config"
	"mediabridge/internal/logging"
	"mediabridge/internal/mcp"
	"mediabridge/internal/preflight"
	"mediabridge/internal/tools"
)

// ErrAlreadyRunning reports that another daemon holds the lock.
var ErrAlreadyRunning = errors.New("another mediabridge daemon instance is already running")

// Options carries optional daemon settings.
type Options struct {
	// Version is reported by status and the MCP handshake.
	Version string
	// Shutdown is invoked when a client asks the daemon process to exit.
	Shutdown func()
}

// Daemon serves conversion requests and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *tools.Registry
	mcp      *mcp.Server
	opts     Options

	lockPath string
	lock     *flock.Flock
	api      *apiServer

	mu        sync.Mutex
	running   atomic.Bool
	startedAt atomic.Int64
	cancel    context.CancelFunc
}

// New constructs a daemon around registry.
func New(cfg *config.Config, registry *tools.Registry, logger *slog.Logger, opts Options) (*Daemon, error) {
	if cfg == nil || registry == nil {
		return nil, errors.New("daemon requires config and tool registry")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		registry: registry,
		mcp:      mcp.NewServer(registry, mcp.ServerInfo{Name: "mediabridge", Version: opts.Version}, logger),
		opts:     opts,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the daemon lock and starts the HTTP server.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.api.start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.cancel = cancel
	d.startedAt.Store(time.Now().UnixNano())
	d.running.Store(true)

	d.logPreflight(runCtx)
	d.logger.Info("mediabridge daemon started",
		logging.String(logging.FieldEventType, "daemon_start"),
		logging.String("lock", d.lockPath),
		logging.String("http", d.HTTPAddr()),
		logging.Int("max_concurrent", d.registry.Capacity()))
	return nil
}

// Stop shuts down the HTTP server and releases the daemon lock.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("mediabridge daemon stopped", logging.String(logging.FieldEventType, "daemon_stop"))
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Running reports whether Start has succeeded and Stop has not been called.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// Registry returns the tool registry shared by every transport.
func (d *Daemon) Registry() *tools.Registry {
	return d.registry
}

// MCP returns the MCP server bound to the daemon's registry.
func (d *Daemon) MCP() *mcp.Server {
	return d.mcp
}

// HTTPAddr returns the address the HTTP server listens on, or the configured
// bind when it is not listening.
func (d *Daemon) HTTPAddr() string {
	return d.api.addr()
}

// RequestShutdown asks the hosting process to exit. It reports false when no
// shutdown hook is configured.
func (d *Daemon) RequestShutdown() bool {
	if d.opts.Shutdown == nil {
		return false
	}
	d.logger.Info("shutdown requested", logging.String(logging.FieldEventType, "daemon_shutdown_requested"))
	d.opts.Shutdown()
	return true
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) api.DaemonStatus {
	status := api.DaemonStatus{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		Version:       d.opts.Version,
		LockFilePath:  d.lockPath,
		SocketPath:    d.cfg.SocketPath(),
		HTTPBind:      d.HTTPAddr(),
		InFlight:      d.registry.InFlight(),
		MaxConcurrent: d.registry.Capacity(),
		Encoder:       d.registry.EncoderStatus(ctx),
		Dependencies:  api.FromDependencyStatuses(preflight.CheckSystemDeps(d.cfg)),
	}
	if status.Running {
		status.UptimeSeconds = time.Since(time.Unix(0, d.startedAt.Load())).Seconds()
	}
	host, err := api.CollectHostStats(ctx)
	if err != nil {
		d.logger.Debug("host stats unavailable", logging.Error(err))
	}
	status.Host = host
	return status
}

func (d *Daemon) logPreflight(ctx context.Context) {
	for _, result := range preflight.RunAll(ctx, d.cfg) {
		if result.Passed || result.Advisory {
			d.logger.Debug("preflight check",
				logging.String("check", result.Name),
				logging.Bool("passed", result.Passed),
				logging.String("detail", result.Detail))
			continue
		}
		attrs := []logging.Attr{
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
		}
		if result.Hint != "" {
			attrs = append(attrs, logging.String(logging.FieldErrorHint, result.Hint))
		}
		logging.WarnWithContext(d.logger, "preflight check failed", "preflight_failed", attrs...)
	}
}
