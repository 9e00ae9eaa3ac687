package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"mediabridge/internal/api"
	"mediabridge/internal/config"
	"mediabridge/internal/deps"
)

const encoderInstallHint = "Install FFmpeg (https://ffmpeg.org/download.html) or set encoder.binary"

// CheckEncoder verifies the configured encoder resolves and answers -version.
func CheckEncoder(ctx context.Context, cfg *config.Config) Result {
	name := cfg.Encoder.Name
	info := deps.ProbeEncoder(ctx, name, cfg.Encoder.Binary, cfg.Encoder.SearchPaths)
	if !info.Installed {
		return Result{Name: name, Detail: info.Error, Hint: encoderInstallHint}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", info.Version, info.Path)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckHost reports a CPU and memory snapshot. It is advisory: a busy host
// slows conversions but does not prevent them.
func CheckHost(ctx context.Context) Result {
	const name = "Host resources"
	stats, err := api.CollectHostStats(ctx)
	if err != nil {
		return Result{Name: name, Advisory: true, Detail: fmt.Sprintf("unavailable (%v)", err)}
	}
	detail := fmt.Sprintf("cpu %.0f%%, memory %.0f%% of %s", stats.CPUPercent, stats.MemoryPercent, formatBytes(stats.MemoryTotal))
	if stats.Busy {
		return Result{Name: name, Advisory: true, Detail: detail + " (busy)"}
	}
	return Result{Name: name, Passed: true, Advisory: true, Detail: detail}
}

// CheckSystemDeps evaluates the binaries mediabridge shells out to.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries([]deps.Requirement{
		{
			Name:        cfg.Encoder.Name,
			Command:     cfg.Encoder.Binary,
			Description: "Required for conversions",
			SearchPaths: cfg.Encoder.SearchPaths,
		},
	})
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
