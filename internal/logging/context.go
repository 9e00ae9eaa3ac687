package logging

import (
	"context"
	"log/slog"

	"mediabridge/internal/services"
)

const (
	FieldComponent     = "component"
	FieldCorrelationID = "correlation_id" // one per tool call
	FieldTool          = "tool"
	FieldTransport     = "transport" // stdio, http, ipc or cli
	FieldEventType     = "event_type"
	FieldErrorHint     = "error_hint" // next step for the operator
)

// ContextFields returns the correlation id, tool and transport stored in ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	lookups := []struct {
		key string
		get func(context.Context) (string, bool)
	}{
		{FieldCorrelationID, services.RequestIDFromContext},
		{FieldTool, services.ToolFromContext},
		{FieldTransport, services.TransportFromContext},
	}
	var fields []slog.Attr
	for _, l := range lookups {
		if v, ok := l.get(ctx); ok {
			fields = append(fields, slog.String(l.key, v))
		}
	}
	return fields
}

// WithContext attaches ContextFields(ctx) to logger. A nil logger yields a
// no-op.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if fields := ContextFields(ctx); len(fields) > 0 {
		return logger.With(Args(fields...)...)
	}
	return logger
}
