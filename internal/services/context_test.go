package services_test

import (
	"context"
	"testing"

	"mediabridge/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithTool(ctx, "convert_video")
	ctx = services.WithTransport(ctx, "stdio")

	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
	if tool, ok := services.ToolFromContext(ctx); !ok || tool != "convert_video" {
		t.Fatalf("unexpected tool: %v %v", tool, ok)
	}
	if transport, ok := services.TransportFromContext(ctx); !ok || transport != "stdio" {
		t.Fatalf("unexpected transport: %v %v", transport, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := services.WithTool(context.Background(), "")
	if _, ok := services.ToolFromContext(ctx); ok {
		t.Fatal("expected no tool value")
	}
}
