package api

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Hosts above these thresholds are reported busy.
const (
	busyCPUPercent    = 85.0
	busyMemoryPercent = 90.0
)

// CPUSampleWindow is the interval CollectHostStats measures CPU usage over.
var CPUSampleWindow = 250 * time.Millisecond

// CollectHostStats samples CPU and memory usage. A partial snapshot is
// returned alongside the first error encountered.
func CollectHostStats(ctx context.Context) (HostStats, error) {
	var stats HostStats

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		stats.Error = err.Error()
		return stats, fmt.Errorf("memory stats: %w", err)
	}
	stats.MemoryPercent = vm.UsedPercent
	stats.MemoryTotal = vm.Total
	stats.MemoryAvailable = vm.Available

	pct, err := cpu.PercentWithContext(ctx, CPUSampleWindow, false)
	if err != nil {
		stats.Error = err.Error()
		return stats, fmt.Errorf("cpu stats: %w", err)
	}
	if len(pct) > 0 {
		stats.CPUPercent = pct[0]
	}

	stats.Busy = stats.CPUPercent > busyCPUPercent || stats.MemoryPercent > busyMemoryPercent
	return stats, nil
}
