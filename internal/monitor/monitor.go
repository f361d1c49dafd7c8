// Package monitor logs process resource usage while gleanbox serves.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// StatsFunc reports application counters logged alongside resource usage.
type StatsFunc func() []slog.Attr

// Monitor periodically logs CPU, memory and goroutine usage.
type Monitor struct {
	interval time.Duration
	logger   *slog.Logger
	stats    StatsFunc
	wg       sync.WaitGroup
	proc     *process.Process
}

// New creates a monitor for the current process. stats may be nil.
func New(interval time.Duration, logger *slog.Logger, stats StatsFunc) (*Monitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process handle: %w", err)
	}

	return &Monitor{
		interval: interval,
		logger:   logger,
		stats:    stats,
		proc:     proc,
	}, nil
}

// Run starts the monitoring loop in a background goroutine. The loop exits
// when ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.wg.Go(func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.collect(ctx)

		for {
			select {
			case <-ctx.Done():
				m.logger.Info("monitor shutdown complete")
				return
			case <-ticker.C:
				m.collect(ctx)
			}
		}
	})
}

// Wait blocks until the monitor goroutine exits.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// collect reads current usage and logs it.
func (m *Monitor) collect(ctx context.Context) {
	cpu, err := m.proc.CPUPercentWithContext(ctx)
	if err != nil {
		m.logger.Warn("failed to get CPU percent", "error", err)
		cpu = 0
	}

	rss := uint64(0)
	if mem, err := m.proc.MemoryInfoWithContext(ctx); err == nil {
		rss = mem.RSS
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	mb := func(b uint64) float64 {
		return float64(b) / (1024 * 1024)
	}

	attrs := []slog.Attr{
		slog.String("cpu", fmt.Sprintf("%.2f%%", cpu)),
		slog.String("rss", fmt.Sprintf("%.2fMB", mb(rss))),
		slog.String("heap", fmt.Sprintf("%.2fMB", mb(ms.HeapAlloc))),
		slog.Int("gor", runtime.NumGoroutine()),
		slog.Uint64("gc", uint64(ms.NumGC)),
	}
	if m.stats != nil {
		attrs = append(attrs, m.stats()...)
	}

	m.logger.LogAttrs(ctx, slog.LevelInfo, "resource", attrs...)
}
