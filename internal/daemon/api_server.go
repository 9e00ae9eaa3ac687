package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mediabridge/internal/config"
	"mediabridge/internal/convert"
	"mediabridge/internal/logging"
	"mediabridge/internal/services"
	"mediabridge/internal/tools"
)

const maxConvertBody = 1 << 20

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon
	router *mux.Router

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.Server.HTTPBind),
		logger: logging.NewComponentLogger(logger, "api-server"),
		daemon: d,
	}
	srv.router = srv.routes(strings.TrimSpace(cfg.Server.APIToken))
	return srv
}

func (s *apiServer) routes(token string) *mux.Router {
	r := mux.NewRouter()
	r.Use(metricsMiddleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Unauthenticated probes.
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/api/status", authMiddleware(token, s.handleStatus)).Methods(http.MethodGet)
	r.HandleFunc("/api/formats", authMiddleware(token, s.handleFormats)).Methods(http.MethodGet)
	r.HandleFunc("/api/encoder", authMiddleware(token, s.handleEncoder)).Methods(http.MethodGet)
	r.HandleFunc("/api/convert", authMiddleware(token, s.handleConvert)).Methods(http.MethodPost)
	r.HandleFunc("/mcp", authMiddleware(token, s.daemon.MCP().Handler().ServeHTTP)).Methods(http.MethodPost)
	return r
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		s.logger.Info("http server disabled")
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	server := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.listener = listener
	s.server = server
	s.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api server shutdown", logging.Error(err))
		_ = server.Close()
	}
}

func (s *apiServer) addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.bind
}

func (s *apiServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"running": s.daemon.Running(),
	})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.daemon.Status(r.Context()))
}

func (s *apiServer) handleFormats(w http.ResponseWriter, r *http.Request) {
	s.callTool(w, r, tools.GetSupportedFormats, nil)
}

func (s *apiServer) handleEncoder(w http.ResponseWriter, r *http.Request) {
	s.callTool(w, r, tools.CheckEncoder, nil)
}

func (s *apiServer) handleConvert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxConvertBody+1))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(body) > maxConvertBody {
		s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	s.callTool(w, r, tools.ConvertVideo, body)
}

func (s *apiServer) callTool(w http.ResponseWriter, r *http.Request, name string, args json.RawMessage) {
	ctx := services.WithTransport(r.Context(), "http")
	outcome, err := s.daemon.Registry().Call(ctx, name, args, nil)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, tools.ErrInvalidArguments) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, err.Error())
		return
	}
	status := http.StatusOK
	if outcome.IsError {
		status = http.StatusUnprocessableEntity
		if resp, ok := outcome.Payload.(convert.Response); ok && resp.ErrorKind == convert.KindUnexpected {
			status = http.StatusInternalServerError
		}
	}
	s.writeJSON(w, status, outcome.Payload)
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
