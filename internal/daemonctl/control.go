package daemonctl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"mediabridge/internal/api"
	"mediabridge/internal/config"
	"mediabridge/internal/deps"
	"mediabridge/internal/ipc"
	"mediabridge/internal/preflight"
)

const pollInterval = 200 * time.Millisecond

// LaunchOptions controls daemon process launch behavior.
type LaunchOptions struct {
	ConfigPath string
	SocketPath string
	LogLevel   string
}

type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

// StartResult captures daemon start orchestration state.
type StartResult struct {
	State StartState
	PID   int
}

// ErrDaemonNotRunning indicates daemon IPC is unavailable.
var ErrDaemonNotRunning = errors.New("daemon not running")

// Args returns the command-line arguments that run the daemon in the
// foreground with these options.
func (o LaunchOptions) Args() []string {
	args := []string{"daemon"}
	for _, flag := range []struct{ name, value string }{
		{"--config", o.ConfigPath},
		{"--socket", o.SocketPath},
		{"--log-level", o.LogLevel},
	} {
		if v := strings.TrimSpace(flag.value); v != "" {
			args = append(args, flag.name, v)
		}
	}
	return args
}

// Launch starts a detached mediabridge daemon process in its own session.
func Launch(executablePath string, opts LaunchOptions) error {
	if strings.TrimSpace(executablePath) == "" {
		return fmt.Errorf("resolve executable: executable path is empty")
	}
	proc := exec.Command(executablePath, opts.Args()...)
	proc.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitForClient waits for IPC socket availability and returns a connected client.
func WaitForClient(socketPath string, timeout time.Duration) (*ipc.Client, error) {
	var client *ipc.Client
	lastErr := errors.New("timeout waiting for daemon")
	ok := poll(timeout, func() bool {
		c, err := ipc.Dial(socketPath)
		if err != nil {
			lastErr = err
			return false
		}
		client = c
		return true
	})
	if !ok {
		return nil, fmt.Errorf("daemon failed to start: %w", lastErr)
	}
	return client, nil
}

// EnsureStarted launches the daemon unless one already answers on socketPath.
func EnsureStarted(socketPath, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (StartResult, error) {
	result := StartResult{State: StartStateAlreadyRunning}
	client, err := ipc.Dial(socketPath)
	if err != nil {
		if err := Launch(executablePath, opts); err != nil {
			return StartResult{}, err
		}
		if client, err = WaitForClient(socketPath, waitTimeout); err != nil {
			return StartResult{}, err
		}
		result.State = StartStateStarted
	}
	defer client.Close()

	if resp, err := client.Status(); err == nil && resp != nil {
		result.PID = resp.Status.PID
	}
	return result, nil
}

// StopResult captures daemon stop/termination outcome.
type StopResult struct {
	ShutdownAccepted bool
	ForcedKill       bool
	PID              int
}

// StopAndTerminate asks the daemon to exit over IPC. If it still answers after
// gracePeriod the process is signalled directly.
func StopAndTerminate(socketPath string, cfg *config.Config, gracePeriod time.Duration) (StopResult, error) {
	client, err := ipc.Dial(socketPath)
	if err != nil {
		if isDaemonUnavailable(err) {
			return StopResult{}, ErrDaemonNotRunning
		}
		return StopResult{}, err
	}
	var result StopResult
	if resp, err := client.Status(); err == nil && resp != nil {
		result.PID = resp.Status.PID
	}
	resp, err := client.Shutdown()
	_ = client.Close()
	if err != nil {
		return StopResult{}, err
	}
	result.ShutdownAccepted = resp.Accepted

	if WaitForShutdown(socketPath, gracePeriod) == nil {
		return result, nil
	}
	alive, livePID, err := ProcessInfo(socketPath)
	if err != nil || !alive {
		return result, nil
	}
	if livePID != 0 {
		result.PID = livePID
	}
	killed, err := TerminateProcess(cfg.PIDPath(), cfg.LockPath(), result.PID, gracePeriod)
	if err != nil {
		return result, fmt.Errorf("failed to stop daemon process: %w", err)
	}
	_ = os.Remove(socketPath)
	result.ForcedKill = true
	result.PID = killed
	return result, nil
}

// BuildStatusSnapshot returns the daemon's status over IPC, or an offline
// snapshot computed locally when the daemon is unreachable.
func BuildStatusSnapshot(ctx context.Context, socketPath string, cfg *config.Config) (api.DaemonStatus, error) {
	if cfg == nil {
		return api.DaemonStatus{}, errors.New("configuration not available")
	}

	if client, err := ipc.Dial(socketPath); err == nil {
		defer client.Close()
		if resp, err := client.Status(); err == nil && resp != nil {
			return resp.Status, nil
		}
	}

	status := api.DaemonStatus{
		LockFilePath:  cfg.LockPath(),
		SocketPath:    socketPath,
		HTTPBind:      cfg.Server.HTTPBind,
		MaxConcurrent: cfg.Server.MaxConcurrent,
		Encoder:       deps.ProbeEncoder(ctx, cfg.Encoder.Name, cfg.Encoder.Binary, cfg.Encoder.SearchPaths),
		Dependencies:  api.FromDependencyStatuses(preflight.CheckSystemDeps(cfg)),
	}
	host, err := api.CollectHostStats(ctx)
	status.Host = host
	if err != nil && status.Host.Error == "" {
		status.Host.Error = err.Error()
	}
	return status, nil
}
