package daemonctl

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"mediabridge/internal/api"
	"mediabridge/internal/testsupport"
)

func TestBuildStatusSnapshotOffline(t *testing.T) {
	prev := api.CPUSampleWindow
	api.CPUSampleWindow = 0
	t.Cleanup(func() { api.CPUSampleWindow = prev })

	cfg := testsupport.NewConfig(t, testsupport.WithStubEncoder(testsupport.EncoderWritesOutput))
	status, err := BuildStatusSnapshot(context.Background(), cfg.SocketPath(), cfg)
	if err != nil {
		t.Fatalf("BuildStatusSnapshot: %v", err)
	}
	if status.Running {
		t.Fatal("expected offline snapshot")
	}
	if !status.Encoder.Installed {
		t.Fatalf("expected stub encoder to be detected: %+v", status.Encoder)
	}
	if status.LockFilePath != cfg.LockPath() || status.MaxConcurrent != cfg.Server.MaxConcurrent {
		t.Fatalf("unexpected snapshot: %+v", status)
	}
	if len(status.Dependencies) != 1 || !status.Dependencies[0].Available {
		t.Fatalf("unexpected dependencies: %+v", status.Dependencies)
	}
}

func TestStopWithoutDaemon(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	_, err := StopAndTerminate(cfg.SocketPath(), cfg, 10*time.Millisecond)
	if !errors.Is(err, ErrDaemonNotRunning) {
		t.Fatalf("expected ErrDaemonNotRunning, got %v", err)
	}
}

func TestProcessInfoWithoutDaemon(t *testing.T) {
	alive, pid, err := ProcessInfo(filepath.Join(t.TempDir(), "missing.sock"))
	if err != nil || alive || pid != 0 {
		t.Fatalf("unexpected process info: alive=%v pid=%d err=%v", alive, pid, err)
	}
}

func TestTerminateProcessRefusesSelf(t *testing.T) {
	dir := t.TempDir()
	pidPath := filepath.Join(dir, "mediabridged.pid")
	if err := os.WriteFile(pidPath, []byte("\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := TerminateProcess(pidPath, "", os.Getpid(), 0)
	if err == nil || !strings.Contains(err.Error(), "refusing to kill current process") {
		t.Fatalf("expected refusal, got %v", err)
	}
}

func TestTerminateProcessWithoutPID(t *testing.T) {
	_, err := TerminateProcess(filepath.Join(t.TempDir(), "none.pid"), "", 0, 0)
	if err == nil || !strings.Contains(err.Error(), "unable to determine daemon pid") {
		t.Fatalf("expected missing pid error, got %v", err)
	}
}

func TestLaunchRequiresExecutable(t *testing.T) {
	if err := Launch("  ", LaunchOptions{}); err == nil {
		t.Fatal("expected error for empty executable path")
	}
}

func TestTerminateProcessRejectsGarbagePIDFile(t *testing.T) {
	pidPath := filepath.Join(t.TempDir(), "mediabridged.pid")
	if err := os.WriteFile(pidPath, []byte("not-a-pid\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := TerminateProcess(pidPath, "", 0, 0); err == nil || !strings.Contains(err.Error(), "invalid daemon pid file") {
		t.Fatalf("expected invalid pid error, got %v", err)
	}
}

func TestTerminateProcessStopsChild(t *testing.T) {
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Skipf("sleep unavailable: %v", err)
	}
	waited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(waited)
	}()

	dir := t.TempDir()
	pidPath := filepath.Join(dir, "mediabridged.pid")
	lockPath := filepath.Join(dir, "mediabridged.lock")
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(cmd.Process.Pid)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(lockPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	pid, err := TerminateProcess(pidPath, lockPath, 0, 2*time.Second)
	if err != nil {
		t.Fatalf("TerminateProcess: %v", err)
	}
	if pid != cmd.Process.Pid {
		t.Fatalf("pid = %d, want %d", pid, cmd.Process.Pid)
	}
	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatal("child did not exit")
	}
	for _, p := range []string{pidPath, lockPath} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed, got %v", p, err)
		}
	}
}

func TestLaunchOptionsArgs(t *testing.T) {
	got := strings.Join(LaunchOptions{ConfigPath: "/etc/mb.toml", LogLevel: " debug "}.Args(), " ")
	if got != "daemon --config /etc/mb.toml --log-level debug" {
		t.Fatalf("unexpected args %q", got)
	}
}
