package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"path/filepath"
	"sync"

	"mediabridge/internal/convert"
	"mediabridge/internal/daemon"
	"mediabridge/internal/deps"
	"mediabridge/internal/formats"
	"mediabridge/internal/logging"
	"mediabridge/internal/services"
	"mediabridge/internal/tools"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer binds the socket at path, replacing a stale one, and registers
// the MediaBridge service backed by d.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	listener, err := listenUnix(path)
	if err != nil {
		return nil, err
	}

	logger = logging.NewComponentLogger(logger, "ipc")
	serverCtx, cancel := context.WithCancel(ctx)
	rpcServer := rpc.NewServer()
	if err := rpcServer.RegisterName(ServiceName, &service{daemon: d, logger: logger, ctx: serverCtx}); err != nil {
		cancel()
		_ = listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}
	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

func listenUnix(path string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create socket directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	l, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", path, err)
	}
	return l, nil
}

// Serve accepts connections in the background until Close is called.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go s.acceptLoop()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			logging.WarnWithContext(s.logger, "accept failed", "ipc_accept_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon"))
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(conn))
		}()
	}
}

// Close stops accepting, waits for open connections to drain and removes
// the socket file.
func (s *Server) Close() {
	s.cancel()
	_ = s.listener.Close()
	s.wg.Wait()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.WarnWithContext(s.logger, "failed to remove socket", "ipc_socket_cleanup_failed",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the socket file manually"))
	}
}

// service is the net/rpc receiver. Tool-backed methods go through the
// daemon's registry so they share admission control and metrics with HTTP.
type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func callTool[T any](s *service, name string, args any) (T, error) {
	var zero T
	var raw json.RawMessage
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return zero, fmt.Errorf("encode %s args: %w", name, err)
		}
		raw = b
	}
	outcome, err := s.daemon.Registry().Call(services.WithTransport(s.ctx, "ipc"), name, raw, nil)
	if err != nil {
		return zero, err
	}
	payload, ok := outcome.Payload.(T)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected payload %T", name, outcome.Payload)
	}
	return payload, nil
}

func (s *service) Convert(req ConvertRequest, resp *ConvertResponse) (err error) {
	resp.Result, err = callTool[convert.Response](s, tools.ConvertVideo, req.Request)
	return err
}

func (s *service) Formats(_ FormatsRequest, resp *FormatsResponse) (err error) {
	resp.Table, err = callTool[formats.Table](s, tools.GetSupportedFormats, nil)
	return err
}

func (s *service) EncoderCheck(_ EncoderCheckRequest, resp *EncoderCheckResponse) (err error) {
	resp.Encoder, err = callTool[deps.EncoderInfo](s, tools.CheckEncoder, nil)
	return err
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	resp.Status = s.daemon.Status(s.ctx)
	return nil
}

func (s *service) Shutdown(_ ShutdownRequest, resp *ShutdownResponse) error {
	s.logger.Info("daemon shutdown requested via IPC",
		logging.String(logging.FieldEventType, "daemon_shutdown_ipc"))
	resp.Accepted = s.daemon.RequestShutdown()
	return nil
}
