package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"mediabridge/internal/config"
	"mediabridge/internal/convert"
	"mediabridge/internal/daemon"
	"mediabridge/internal/deps"
	"mediabridge/internal/ipc"
	"mediabridge/internal/logging"
	"mediabridge/internal/tools"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
	Version  string
}

// Run starts the mediabridge daemon and blocks until it receives SIGINT or
// SIGTERM, the context is canceled, or a client requests shutdown.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runCfg := *cfg
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		runCfg.Logging.Level = level
	}
	logger, err := logging.NewFromConfig(&runCfg, false)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = logger.With(logging.String("run_id", uuid.NewString()))

	logDependencySnapshot(signalCtx, logger, cfg)

	registry := tools.New(cfg, convert.NewService(cfg, logger), logger)
	d, err := daemon.New(cfg, registry, logger, daemon.Options{Version: opts.Version, Shutdown: cancel})
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		logging.ErrorWithContext(logger, "daemon start failed", "daemon_start_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check for another running daemon and the http_bind address"))
		return fmt.Errorf("start daemon: %w", err)
	}

	pidPath := cfg.PIDPath()
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	<-signalCtx.Done()
	logger.Info("mediabridge daemon shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logDependencySnapshot(ctx context.Context, logger *slog.Logger, cfg *config.Config) {
	info := deps.ProbeEncoder(ctx, cfg.Encoder.Name, cfg.Encoder.Binary, cfg.Encoder.SearchPaths)
	logger.Info("dependency snapshot",
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.Bool("encoder_available", info.Installed),
		logging.String("encoder_binary", cfg.Encoder.Binary),
		logging.String("encoder_path", info.Path),
		logging.String("encoder_version", info.Version),
		logging.Bool("api_token_set", strings.TrimSpace(cfg.Server.APIToken) != ""),
		logging.Int("max_concurrent", cfg.Server.MaxConcurrent),
	)
}
