package daemonrun

import (
	"context"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"mediabridge/internal/api"
	"mediabridge/internal/ipc"
	"mediabridge/internal/testsupport"
)

func TestRunServesIPCUntilShutdown(t *testing.T) {
	prev := api.CPUSampleWindow
	api.CPUSampleWindow = 0
	t.Cleanup(func() { api.CPUSampleWindow = prev })

	cfg := testsupport.NewConfig(t, testsupport.WithStubEncoder(testsupport.EncoderWritesOutput))
	cfg.Server.HTTPBind = ""

	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), cfg, Options{Version: "test", LogLevel: "error"})
	}()

	var client *ipc.Client
	deadline := time.Now().Add(5 * time.Second)
	for client == nil && time.Now().Before(deadline) {
		select {
		case err := <-done:
			if err != nil && strings.Contains(err.Error(), "operation not permitted") {
				t.Skipf("skipping daemon run test: %v", err)
			}
			t.Fatalf("Run exited early: %v", err)
		default:
		}
		c, err := ipc.Dial(cfg.SocketPath())
		if err == nil {
			client = c
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if client == nil {
		t.Fatal("daemon did not open its socket")
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Status.Running || status.Status.PID != os.Getpid() {
		t.Fatalf("unexpected status: %+v", status.Status)
	}
	data, err := os.ReadFile(cfg.PIDPath())
	if err != nil {
		t.Fatalf("read pid file: %v", err)
	}
	if strings.TrimSpace(string(data)) != strconv.Itoa(os.Getpid()) {
		t.Fatalf("pid file = %q", data)
	}

	if _, err := client.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	client.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("daemon did not exit after shutdown request")
	}
	if _, err := os.Stat(cfg.PIDPath()); !os.IsNotExist(err) {
		t.Fatalf("expected pid file to be removed, stat err = %v", err)
	}
}
