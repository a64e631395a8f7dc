package monitoring

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// emaAlpha weights the newest sample in moving averages
const emaAlpha = 0.1

// runtimeStats is the last sampled view of the Go runtime
type runtimeStats struct {
	memoryUsage    int64
	heapSize       int64
	goroutineCount int
	gcCount        uint32
	sampledAt      time.Time
}

// Metrics holds the pipeline and server counters
type Metrics struct {
	Generations         int64
	GenerationFailures  int64
	EmptyGenerations    int64
	ModelFailures       int64
	AverageGenerationMs int64

	Exports         map[string]int64
	ExportFailures  int64
	AverageExportMs int64

	HTTPRequests         int64
	HTTPServerErrors     int64
	WebSocketConnections int64
}

// Monitor collects Metrics and samples runtime memory in the background
type Monitor struct {
	startedAt time.Time
	interval  time.Duration

	mu            sync.RWMutex
	metrics       Metrics
	avgGeneration time.Duration
	avgExport     time.Duration
	runtime       runtimeStats

	runMu   sync.Mutex
	running bool
	stopCh  chan struct{}
}

// NewMonitor creates a monitor that samples the runtime every interval
func NewMonitor(interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	m := &Monitor{
		startedAt: time.Now(),
		interval:  interval,
		metrics:   Metrics{Exports: make(map[string]int64)},
	}
	m.sample()
	return m
}

// Start begins runtime sampling until ctx ends or Stop is called
func (m *Monitor) Start(ctx context.Context) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if m.running {
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})

	go m.collect(ctx, m.stopCh)
}

// Stop ends runtime sampling
func (m *Monitor) Stop() {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if !m.running {
		return
	}
	m.running = false
	close(m.stopCh)
}

func (m *Monitor) collect(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

func (m *Monitor) sample() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.runtime = runtimeStats{
		memoryUsage:    safeUint64ToInt64(memStats.Alloc),
		heapSize:       safeUint64ToInt64(memStats.HeapAlloc),
		goroutineCount: runtime.NumGoroutine(),
		gcCount:        memStats.NumGC,
		sampledAt:      time.Now(),
	}
}

// RecordGeneration records one pipeline run
func (m *Monitor) RecordGeneration(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics.Generations++
	if err != nil {
		m.metrics.GenerationFailures++
		var reqErr *entities.RequestError
		switch {
		case errors.Is(err, entities.ErrEmptyGeneration):
			m.metrics.EmptyGenerations++
		case errors.As(err, &reqErr):
			m.metrics.ModelFailures++
		}
		return
	}
	m.avgGeneration = movingAverage(m.avgGeneration, duration)
	m.metrics.AverageGenerationMs = m.avgGeneration.Milliseconds()
}

// RecordExport records one rendered file
func (m *Monitor) RecordExport(format string, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.metrics.ExportFailures++
		return
	}
	m.metrics.Exports[format]++
	m.avgExport = movingAverage(m.avgExport, duration)
	m.metrics.AverageExportMs = m.avgExport.Milliseconds()
}

// RecordHTTPRequest records a served request
func (m *Monitor) RecordHTTPRequest(status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics.HTTPRequests++
	if status >= 500 {
		m.metrics.HTTPServerErrors++
	}
}

// RecordWebSocketConnection records an accepted websocket client
func (m *Monitor) RecordWebSocketConnection() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.metrics.WebSocketConnections++
}

// GetMetrics returns a copy of the counters
func (m *Monitor) GetMetrics() Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.metrics
	out.Exports = make(map[string]int64, len(m.metrics.Exports))
	for k, v := range m.metrics.Exports {
		out.Exports[k] = v
	}
	return out
}

// Uptime returns the time since the monitor was created
func (m *Monitor) Uptime() time.Duration {
	return time.Since(m.startedAt)
}

// IsHealthy performs a basic resource check on the last runtime sample
func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	maxMemory := int64(500 * 1024 * 1024)
	maxGoroutines := 1000

	return m.runtime.memoryUsage < maxMemory && m.runtime.goroutineCount < maxGoroutines
}

// Status returns the health report served by the stats endpoint
func (m *Monitor) Status() map[string]interface{} {
	metrics := m.GetMetrics()
	healthy := m.IsHealthy()

	m.mu.RLock()
	rt := m.runtime
	m.mu.RUnlock()

	return map[string]interface{}{
		"healthy":    healthy,
		"uptime":     m.Uptime().Round(time.Second).String(),
		"memory_mb":  rt.memoryUsage / (1024 * 1024),
		"heap_mb":    rt.heapSize / (1024 * 1024),
		"goroutines": rt.goroutineCount,
		"gc_cycles":  rt.gcCount,
		"sampled_at": rt.sampledAt,
		"generation": map[string]interface{}{
			"total":          metrics.Generations,
			"failed":         metrics.GenerationFailures,
			"empty":          metrics.EmptyGenerations,
			"model_failures": metrics.ModelFailures,
			"avg_ms":         metrics.AverageGenerationMs,
		},
		"export": map[string]interface{}{
			"by_format": metrics.Exports,
			"failed":    metrics.ExportFailures,
			"avg_ms":    metrics.AverageExportMs,
		},
		"http": map[string]interface{}{
			"requests":              metrics.HTTPRequests,
			"server_errors":         metrics.HTTPServerErrors,
			"websocket_connections": metrics.WebSocketConnections,
		},
	}
}

func movingAverage(avg, sample time.Duration) time.Duration {
	if avg == 0 {
		return sample
	}
	return time.Duration(float64(avg)*(1-emaAlpha) + float64(sample)*emaAlpha)
}

// safeUint64ToInt64 caps val at the max int64 value
func safeUint64ToInt64(val uint64) int64 {
	if val > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(val)
}

// Ensure Monitor implements ports.Metrics
var _ ports.Metrics = (*Monitor)(nil)
