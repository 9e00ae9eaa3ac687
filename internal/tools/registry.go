package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"mediabridge/internal/config"
	"mediabridge/internal/convert"
	"mediabridge/internal/deps"
	"mediabridge/internal/formats"
	"mediabridge/internal/logging"
	"mediabridge/internal/metrics"
	"mediabridge/internal/services"
)

// Tool names.
const (
	CheckEncoder        = "check_ffmpeg_installed"
	ConvertVideo        = "convert_video"
	GetSupportedFormats = "get_supported_formats"
)

var (
	// ErrUnknownTool reports a call to a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidArguments reports arguments that do not match the tool schema.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Converter runs a single conversion.
type Converter interface {
	Convert(ctx context.Context, req convert.Request, sink convert.ProgressSink) convert.Result
}

// Outcome is the result of a tool call.
type Outcome struct {
	// Payload is the JSON-serializable tool result.
	Payload any
	// IsError marks results that report a failed operation.
	IsError bool
}

// Registry dispatches tool calls.
type Registry struct {
	cfg       *config.Config
	converter Converter
	slots     *semaphore.Weighted
	capacity  int64
	active    atomic.Int64
	logger    *slog.Logger
	started   time.Time
}

// New creates a registry. Conversions are capped at cfg.Server.MaxConcurrent.
func New(cfg *config.Config, converter Converter, logger *slog.Logger) *Registry {
	capacity := int64(cfg.Server.MaxConcurrent)
	if capacity <= 0 {
		capacity = 1
	}
	return &Registry{
		cfg:       cfg,
		converter: converter,
		slots:     semaphore.NewWeighted(capacity),
		capacity:  capacity,
		logger:    logging.NewComponentLogger(logger, "tools"),
		started:   time.Now(),
	}
}

// Capacity returns the maximum number of concurrent conversions.
func (r *Registry) Capacity() int { return int(r.capacity) }

// Call invokes the named tool with raw JSON arguments. Errors are returned
// only for unknown tools and malformed arguments; operation failures are
// reported through Outcome.IsError.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage, sink convert.ProgressSink) (Outcome, error) {
	ctx = services.WithTool(ctx, name)
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	logger := logging.WithContext(ctx, r.logger)
	transport, _ := services.TransportFromContext(ctx)

	outcome, err := r.dispatch(ctx, name, args, sink)
	status := "ok"
	switch {
	case err != nil:
		status = "rejected"
		logger.Info("tool call rejected", logging.Error(err))
	case outcome.IsError:
		status = "error"
	}
	if err == nil || !errors.Is(err, ErrUnknownTool) {
		metrics.ToolCallsTotal.WithLabelValues(name, transport, status).Inc()
	}
	logger.Debug("tool call finished", logging.String("status", status))
	return outcome, err
}

func (r *Registry) dispatch(ctx context.Context, name string, args json.RawMessage, sink convert.ProgressSink) (Outcome, error) {
	switch name {
	case CheckEncoder:
		return Outcome{Payload: r.EncoderStatus(ctx)}, nil
	case GetSupportedFormats:
		return Outcome{Payload: r.Formats()}, nil
	case ConvertVideo:
		req, err := decodeConvertArgs(args)
		if err != nil {
			return Outcome{}, err
		}
		resp := r.Convert(ctx, req, sink)
		return Outcome{Payload: resp, IsError: !resp.Success}, nil
	default:
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
}

// EncoderStatus probes the configured encoder.
func (r *Registry) EncoderStatus(ctx context.Context) deps.EncoderInfo {
	return deps.ProbeEncoder(ctx, r.cfg.Encoder.Name, r.cfg.Encoder.Binary, r.cfg.Encoder.SearchPaths)
}

// Formats returns the supported format table.
func (r *Registry) Formats() formats.Table {
	return formats.Enumerate()
}

// Convert waits for a free conversion slot and runs the request. An empty
// output format defaults to mp4.
func (r *Registry) Convert(ctx context.Context, req convert.Request, sink convert.ProgressSink) convert.Response {
	req = req.WithDefaults()
	waitStart := time.Now()
	if err := r.slots.Acquire(ctx, 1); err != nil {
		kind, msg := convert.KindCanceled, "Conversion canceled before it started."
		if errors.Is(err, context.DeadlineExceeded) {
			kind, msg = convert.KindTimeout, "Conversion timed out waiting for a free slot."
		}
		return convert.Result{Failure: &convert.Failure{Kind: kind, Message: msg, Err: err}}.Response()
	}
	r.active.Add(1)
	defer func() {
		r.active.Add(-1)
		r.slots.Release(1)
	}()
	metrics.ToolAdmissionWait.Observe(time.Since(waitStart).Seconds())

	return r.converter.Convert(ctx, req, sink).Response()
}

// InFlight reports how many conversions currently hold a slot.
func (r *Registry) InFlight() int { return int(r.active.Load()) }

// Uptime reports how long the registry has existed.
func (r *Registry) Uptime() time.Duration { return time.Since(r.started) }

func decodeConvertArgs(args json.RawMessage) (convert.Request, error) {
	var req convert.Request
	if len(bytes.TrimSpace(args)) == 0 {
		return req, fmt.Errorf("%w: input_file_path is required", ErrInvalidArguments)
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if req.InputPath == "" {
		return req, fmt.Errorf("%w: input_file_path is required", ErrInvalidArguments)
	}
	if req.Framerate < 0 {
		req.Framerate = 0
	}
	return req, nil
}
