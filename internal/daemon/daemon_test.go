package daemon_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"mediabridge/internal/api"
	"mediabridge/internal/config"
	"mediabridge/internal/convert"
	"mediabridge/internal/daemon"
	"mediabridge/internal/logging"
	"mediabridge/internal/testsupport"
	"mediabridge/internal/tools"
)

func newDaemon(t *testing.T, cfg *config.Config) *daemon.Daemon {
	t.Helper()
	prev := api.CPUSampleWindow
	api.CPUSampleWindow = 0
	t.Cleanup(func() { api.CPUSampleWindow = prev })

	logger := logging.NewNop()
	registry := tools.New(cfg, convert.NewService(cfg, logger), logger)
	d, err := daemon.New(cfg, registry, logger, daemon.Options{Version: "test"})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubEncoder(testsupport.EncoderWritesOutput))
	cfg.Server.HTTPBind = ""
	d := newDaemon(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	status := d.Status(ctx)
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.UptimeSeconds < 0 {
		t.Fatalf("unexpected uptime: %v", status.UptimeSeconds)
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected daemon to be stopped")
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubEncoder(testsupport.EncoderWritesOutput))
	cfg.Server.HTTPBind = ""
	first := newDaemon(t, cfg)
	second := newDaemon(t, cfg)

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := second.Start(ctx); !errors.Is(err, daemon.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("second Start after release: %v", err)
	}
}

func TestDaemonServesHTTP(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubEncoder(testsupport.EncoderWritesOutput))
	d := newDaemon(t, cfg)

	if err := d.Start(context.Background()); err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping listener test: %v", err)
		}
		t.Fatalf("Start: %v", err)
	}
	addr := d.HTTPAddr()
	if strings.HasSuffix(addr, ":0") {
		t.Fatalf("expected resolved listen address, got %q", addr)
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"running":true`) {
		t.Fatalf("unexpected health response %d: %s", resp.StatusCode, body)
	}
}

func TestDaemonRequestShutdown(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	logger := logging.NewNop()
	registry := tools.New(cfg, convert.NewService(cfg, logger), logger)

	d, err := daemon.New(cfg, registry, logger, daemon.Options{})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if d.RequestShutdown() {
		t.Fatal("expected false without a shutdown hook")
	}

	called := false
	d, err = daemon.New(cfg, registry, logger, daemon.Options{Shutdown: func() { called = true }})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if !d.RequestShutdown() || !called {
		t.Fatal("expected shutdown hook to run")
	}
}
