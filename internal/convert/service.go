package convert

import (
	"context"
	"log/slog"
	"os"
	"time"

	"mediabridge/internal/config"
	"mediabridge/internal/formats"
	"mediabridge/internal/logging"
	"mediabridge/internal/metrics"
)

// Service runs conversions end to end with the configured encoder.
type Service struct {
	builder    *Builder
	supervisor *Supervisor
	timeout    time.Duration
	logger     *slog.Logger
}

// NewService wires a Builder and Supervisor from configuration.
func NewService(cfg *config.Config, logger *slog.Logger) *Service {
	logger = logging.NewComponentLogger(logger, "convert")
	builder := &Builder{
		Encoder:       cfg.Encoder.Binary,
		SearchPaths:   cfg.Encoder.SearchPaths,
		OutputDirName: cfg.Output.DirName,
		Suffix:        cfg.Output.Suffix,
	}
	if cfg.Output.ReserveInFlight {
		builder.Reservations = NewReservations()
	}
	return &Service{
		builder:    builder,
		supervisor: &Supervisor{EncoderName: cfg.Encoder.Name, Logger: logger},
		timeout:    cfg.EncoderTimeout(),
		logger:     logger,
	}
}

// Convert validates req, runs the encoder, and verifies the output.
func (s *Service) Convert(ctx context.Context, req Request, sink ProgressSink) Result {
	start := time.Now()
	logger := logging.WithContext(ctx, s.logger)

	inv, failure := s.builder.Build(req, req.Preset())
	if failure != nil {
		res := failed(failure)
		s.finish(logger, req, Invocation{}, res, start)
		return res
	}
	defer inv.Release()

	logger.Info("conversion started",
		logging.String("input", inv.InputPath),
		logging.String("output", inv.OutputPath),
		logging.String("format", inv.Format),
		logging.String("quality", string(req.QualityTier())))

	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	metrics.ConversionsInProgress.Inc()
	res := s.supervisor.Run(runCtx, inv, sink)
	metrics.ConversionsInProgress.Dec()

	s.finish(logger, req, inv, res, start)
	return res
}

func (s *Service) finish(logger *slog.Logger, req Request, inv Invocation, res Result, start time.Time) {
	elapsed := time.Since(start)
	format := req.Format()
	if !formats.IsSupported(format) {
		format = "unsupported"
	}

	if res.OK() {
		metrics.ConversionsTotal.WithLabelValues(format, "success").Inc()
		metrics.ConversionDuration.WithLabelValues(format).Observe(elapsed.Seconds())
		attrs := []logging.Attr{
			logging.String("output", res.OutputPath),
			logging.Duration("elapsed", elapsed),
		}
		if info, err := os.Stat(res.OutputPath); err == nil {
			metrics.OutputBytesTotal.WithLabelValues(format).Add(float64(info.Size()))
			attrs = append(attrs, logging.Int64("output_bytes", info.Size()))
		}
		logger.Info("conversion succeeded", logging.Args(attrs...)...)
		return
	}

	f := res.Failure
	metrics.ConversionsTotal.WithLabelValues(format, string(f.Kind)).Inc()
	if inv.Program != "" {
		metrics.ConversionDuration.WithLabelValues(format).Observe(elapsed.Seconds())
	}
	attrs := []logging.Attr{
		logging.String("kind", string(f.Kind)),
		logging.String("reason", f.Message),
		logging.Duration("elapsed", elapsed),
	}
	switch f.Kind {
	case KindInputNotFound, KindUnsupportedFormat, KindCanceled:
		logger.Info("conversion rejected", logging.Args(attrs...)...)
	case KindEncoderNotInstalled:
		logging.ErrorWithContext(logger, "conversion failed", "encoder_missing",
			append(attrs, logging.String(logging.FieldErrorHint, "install the encoder or set encoder.binary"))...)
	default:
		if f.ExitCode != 0 {
			attrs = append(attrs, logging.Int("exit_code", f.ExitCode))
		}
		if f.Command != "" {
			attrs = append(attrs, logging.String("command", f.Command))
		}
		logging.ErrorWithContext(logger, "conversion failed", "conversion_failed", attrs...)
	}
}
