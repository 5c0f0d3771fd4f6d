package monitoring

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"
)

// MemoryStats is one runtime sample
type MemoryStats struct {
	HeapAlloc     uint64    `json:"heap_alloc_bytes"`
	HeapSys       uint64    `json:"heap_sys_bytes"`
	HeapInuse     uint64    `json:"heap_inuse_bytes"`
	HeapObjects   uint64    `json:"heap_objects"`
	PauseTotalNs  uint64    `json:"gc_pause_total_ns"`
	GCCPUFraction float64   `json:"gc_cpu_fraction"`
	NumGC         uint32    `json:"num_gc"`
	NumGoroutine  int       `json:"num_goroutine"`
	Timestamp     time.Time `json:"timestamp"`
}

// MemoryMonitor samples runtime memory statistics into Metrics
type MemoryMonitor struct {
	interval   time.Duration
	maxHistory int
	metrics    *Metrics
	logger     *Logger

	mu      sync.RWMutex
	history []MemoryStats
}

// NewMemoryMonitor creates a monitor sampling every interval
func NewMemoryMonitor(interval time.Duration, metrics *Metrics, logger *Logger) *MemoryMonitor {
	return &MemoryMonitor{
		interval:   interval,
		maxHistory: 60,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run samples until ctx is cancelled
func (mm *MemoryMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(mm.interval)
	defer ticker.Stop()

	mm.Sample()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := mm.Sample()
			if stats.NumGC%50 == 0 {
				mm.logger.SystemLogger("memory_stats", fmt.Sprintf(
					"heap:%dMB/%dMB gc:%d goroutines:%d",
					stats.HeapInuse/(1024*1024),
					stats.HeapSys/(1024*1024),
					stats.NumGC,
					stats.NumGoroutine,
				))
			}
		}
	}
}

// Sample reads the runtime statistics once and records them
func (mm *MemoryMonitor) Sample() MemoryStats {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	stats := MemoryStats{
		HeapAlloc:     ms.HeapAlloc,
		HeapSys:       ms.HeapSys,
		HeapInuse:     ms.HeapInuse,
		HeapObjects:   ms.HeapObjects,
		PauseTotalNs:  ms.PauseTotalNs,
		GCCPUFraction: ms.GCCPUFraction,
		NumGC:         ms.NumGC,
		NumGoroutine:  runtime.NumGoroutine(),
		Timestamp:     time.Now(),
	}

	mm.mu.Lock()
	mm.history = append(mm.history, stats)
	if len(mm.history) > mm.maxHistory {
		mm.history = mm.history[1:]
	}
	mm.mu.Unlock()

	if mm.metrics != nil {
		mm.metrics.RecordGCMetrics(int64(ms.NumGC), int64(ms.PauseTotalNs), int64(ms.HeapAlloc), int64(ms.HeapSys))
	}
	return stats
}

// GetHistory returns a copy of the retained samples
func (mm *MemoryMonitor) GetHistory() []MemoryStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	history := make([]MemoryStats, len(mm.history))
	copy(history, mm.history)
	return history
}
