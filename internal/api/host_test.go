package api

import (
	"context"
	"testing"
	"time"

	"mediabridge/internal/deps"
)

func TestCollectHostStats(t *testing.T) {
	prev := CPUSampleWindow
	CPUSampleWindow = 10 * time.Millisecond
	t.Cleanup(func() { CPUSampleWindow = prev })

	stats, err := CollectHostStats(context.Background())
	if err != nil {
		t.Skipf("host stats unavailable: %v", err)
	}
	if stats.MemoryTotal == 0 {
		t.Fatalf("expected total memory to be reported")
	}
	if stats.MemoryPercent < 0 || stats.MemoryPercent > 100 {
		t.Fatalf("memory percent out of range: %v", stats.MemoryPercent)
	}
	if stats.Error != "" {
		t.Fatalf("unexpected error field: %q", stats.Error)
	}
}

func TestFromDependencyStatuses(t *testing.T) {
	in := []deps.Status{{
		Name:      "FFmpeg",
		Command:   "ffmpeg",
		Path:      "/usr/bin/ffmpeg",
		Available: true,
	}, {
		Name:     "ffprobe",
		Command:  "ffprobe",
		Optional: true,
		Detail:   "binary \"ffprobe\" not found",
	}}
	out := FromDependencyStatuses(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(out))
	}
	if !out[0].Available || out[0].Path != "/usr/bin/ffmpeg" {
		t.Fatalf("unexpected first status: %+v", out[0])
	}
	if out[1].Available || !out[1].Optional || out[1].Detail == "" {
		t.Fatalf("unexpected second status: %+v", out[1])
	}
}
