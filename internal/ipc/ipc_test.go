package ipc_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"mediabridge/internal/api"
	"mediabridge/internal/convert"
	"mediabridge/internal/daemon"
	"mediabridge/internal/ipc"
	"mediabridge/internal/logging"
	"mediabridge/internal/testsupport"
	"mediabridge/internal/tools"
)

func TestIPCServerClient(t *testing.T) {
	prev := api.CPUSampleWindow
	api.CPUSampleWindow = 0
	t.Cleanup(func() { api.CPUSampleWindow = prev })

	cfg := testsupport.NewConfig(t, testsupport.WithStubEncoder(testsupport.EncoderWritesOutput))
	cfg.Server.HTTPBind = ""
	logger := logging.NewNop()
	registry := tools.New(cfg, convert.NewService(cfg, logger), logger)

	shutdown := make(chan struct{}, 1)
	d, err := daemon.New(cfg, registry, logger, daemon.Options{
		Version:  "test",
		Shutdown: func() { shutdown <- struct{}{} },
	})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon Start: %v", err)
	}

	socket := cfg.SocketPath()
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		srv.Close()
	})

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Status.Running || status.Status.Version != "test" {
		t.Fatalf("unexpected status: %+v", status.Status)
	}
	if status.Status.SocketPath != socket {
		t.Fatalf("socket path = %q, want %q", status.Status.SocketPath, socket)
	}

	formatsResp, err := client.Formats()
	if err != nil {
		t.Fatalf("Formats RPC failed: %v", err)
	}
	if !formatsResp.Table.Success || len(formatsResp.Table.Formats.Video) == 0 {
		t.Fatalf("unexpected formats: %+v", formatsResp.Table)
	}

	encoder, err := client.EncoderCheck()
	if err != nil {
		t.Fatalf("EncoderCheck RPC failed: %v", err)
	}
	if !encoder.Encoder.Installed {
		t.Fatalf("expected installed encoder, got %+v", encoder.Encoder)
	}

	input := filepath.Join(testsupport.BaseDir(cfg), "media", "clip.webm")
	testsupport.WriteFile(t, input, 64)
	convResp, err := client.Convert(convert.Request{InputPath: input, OutputFormat: "mp4", Quality: "high"})
	if err != nil {
		t.Fatalf("Convert RPC failed: %v", err)
	}
	if !convResp.Result.Success || filepath.Base(convResp.Result.OutputFilePath) != "clip_converted.mp4" {
		t.Fatalf("unexpected convert result: %+v", convResp.Result)
	}

	failed, err := client.Convert(convert.Request{InputPath: input, OutputFormat: "flac"})
	if err != nil {
		t.Fatalf("Convert RPC failed: %v", err)
	}
	if failed.Result.Success || failed.Result.ErrorKind != convert.KindUnsupportedFormat {
		t.Fatalf("expected unsupported format, got %+v", failed.Result)
	}

	if _, err := client.Convert(convert.Request{}); err == nil {
		t.Fatal("expected error for missing input path")
	}

	shutdownResp, err := client.Shutdown()
	if err != nil {
		t.Fatalf("Shutdown RPC failed: %v", err)
	}
	if !shutdownResp.Accepted {
		t.Fatal("expected shutdown to be accepted")
	}
	select {
	case <-shutdown:
	default:
		t.Fatal("expected shutdown hook to run")
	}
}
