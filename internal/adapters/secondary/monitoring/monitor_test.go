package monitoring

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

func TestNewMonitor(t *testing.T) {
	m := NewMonitor(0)

	assert.Equal(t, 30*time.Second, m.interval)
	assert.False(t, m.running)
	assert.NotZero(t, m.runtime.goroutineCount, "runtime is sampled on creation")
	assert.True(t, m.IsHealthy())
}

func TestMonitor_StartStop(t *testing.T) {
	t.Run("start and stop", func(t *testing.T) {
		m := NewMonitor(10 * time.Millisecond)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		m.Start(ctx)
		assert.True(t, m.running)

		m.Stop()
		assert.False(t, m.running)
	})

	t.Run("multiple starts do nothing", func(t *testing.T) {
		m := NewMonitor(time.Hour)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		m.Start(ctx)
		stop := m.stopCh
		m.Start(ctx)
		assert.Equal(t, stop, m.stopCh)

		m.Stop()
	})

	t.Run("stop without start does not panic", func(t *testing.T) {
		m := NewMonitor(time.Hour)
		assert.NotPanics(t, m.Stop)
		assert.NotPanics(t, m.Stop)
	})

	t.Run("can restart after stop", func(t *testing.T) {
		m := NewMonitor(time.Hour)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		m.Start(ctx)
		m.Stop()
		m.Start(ctx)
		assert.True(t, m.running)
		m.Stop()
	})

	t.Run("samples on the ticker", func(t *testing.T) {
		m := NewMonitor(5 * time.Millisecond)
		m.mu.RLock()
		first := m.runtime.sampledAt
		m.mu.RUnlock()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		m.Start(ctx)
		defer m.Stop()

		assert.Eventually(t, func() bool {
			m.mu.RLock()
			defer m.mu.RUnlock()
			return m.runtime.sampledAt.After(first)
		}, time.Second, 5*time.Millisecond)
	})
}

func TestMonitor_RecordGeneration(t *testing.T) {
	m := NewMonitor(time.Hour)

	m.RecordGeneration(100*time.Millisecond, nil)
	m.RecordGeneration(200*time.Millisecond, nil)
	m.RecordGeneration(time.Millisecond, entities.ErrEmptyGeneration)
	m.RecordGeneration(time.Millisecond, &entities.RequestError{Cause: errors.New("timeout")})
	m.RecordGeneration(time.Millisecond, errors.New("disk full"))

	metrics := m.GetMetrics()
	assert.Equal(t, int64(5), metrics.Generations)
	assert.Equal(t, int64(3), metrics.GenerationFailures)
	assert.Equal(t, int64(1), metrics.EmptyGenerations)
	assert.Equal(t, int64(1), metrics.ModelFailures)
	assert.Equal(t, int64(110), metrics.AverageGenerationMs, "moving average ignores failures")
}

func TestMonitor_RecordExport(t *testing.T) {
	m := NewMonitor(time.Hour)

	m.RecordExport("pptx", 40*time.Millisecond, nil)
	m.RecordExport("pptx", 40*time.Millisecond, nil)
	m.RecordExport("pdf", 40*time.Millisecond, nil)
	m.RecordExport("png", time.Millisecond, errors.New("font missing"))

	metrics := m.GetMetrics()
	assert.Equal(t, map[string]int64{"pptx": 2, "pdf": 1}, metrics.Exports)
	assert.Equal(t, int64(1), metrics.ExportFailures)
	assert.Equal(t, int64(40), metrics.AverageExportMs)

	metrics.Exports["pptx"] = 99
	assert.Equal(t, int64(2), m.GetMetrics().Exports["pptx"], "GetMetrics returns a copy")
}

func TestMonitor_RecordHTTP(t *testing.T) {
	m := NewMonitor(time.Hour)

	m.RecordHTTPRequest(200, time.Millisecond)
	m.RecordHTTPRequest(404, time.Millisecond)
	m.RecordHTTPRequest(502, time.Millisecond)
	m.RecordWebSocketConnection()

	metrics := m.GetMetrics()
	assert.Equal(t, int64(3), metrics.HTTPRequests)
	assert.Equal(t, int64(1), metrics.HTTPServerErrors)
	assert.Equal(t, int64(1), metrics.WebSocketConnections)
}

func TestMonitor_ConcurrentRecording(t *testing.T) {
	m := NewMonitor(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordHTTPRequest(200, time.Millisecond)
				m.RecordGeneration(time.Millisecond, nil)
				m.RecordExport("html", time.Millisecond, nil)
				_ = m.Status()
			}
		}()
	}
	wg.Wait()

	metrics := m.GetMetrics()
	assert.Equal(t, int64(1000), metrics.HTTPRequests)
	assert.Equal(t, int64(1000), metrics.Generations)
	assert.Equal(t, int64(1000), metrics.Exports["html"])
}

func TestMonitor_Status(t *testing.T) {
	m := NewMonitor(time.Hour)
	m.RecordGeneration(50*time.Millisecond, nil)
	m.RecordExport("pptx", 10*time.Millisecond, nil)
	m.RecordHTTPRequest(500, time.Millisecond)

	status := m.Status()

	assert.Equal(t, true, status["healthy"])
	assert.Contains(t, status, "uptime")
	assert.Contains(t, status, "memory_mb")

	generation, ok := status["generation"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(1), generation["total"])
	assert.Equal(t, int64(50), generation["avg_ms"])

	export, ok := status["export"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, map[string]int64{"pptx": 1}, export["by_format"])

	httpStats, ok := status["http"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, int64(1), httpStats["server_errors"])
}

type stubGenerator struct {
	slides []entities.Slide
	err    error
}

func (s stubGenerator) Generate(context.Context, string) ([]entities.Slide, error) {
	return s.slides, s.err
}

type stubExporter struct {
	err error
}

func (s stubExporter) Export(_ context.Context, deck *entities.RenderDeck, format string) (*ports.ExportedFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &ports.ExportedFile{Name: deck.ID + "." + format}, nil
}

func (s stubExporter) SupportedFormats() []string {
	return []string{"pptx"}
}

func TestInstrumentGenerator(t *testing.T) {
	m := NewMonitor(time.Hour)
	slides := []entities.Slide{{Title: "One"}}

	got, err := InstrumentGenerator(stubGenerator{slides: slides}, m).Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, slides, got)

	_, err = InstrumentGenerator(stubGenerator{err: entities.ErrEmptyGeneration}, m).Generate(context.Background(), "x")
	assert.ErrorIs(t, err, entities.ErrEmptyGeneration)

	metrics := m.GetMetrics()
	assert.Equal(t, int64(2), metrics.Generations)
	assert.Equal(t, int64(1), metrics.EmptyGenerations)
}

func TestInstrumentExporter(t *testing.T) {
	m := NewMonitor(time.Hour)

	exporter := InstrumentExporter(stubExporter{}, m)
	file, err := exporter.Export(context.Background(), &entities.RenderDeck{ID: "deck"}, "pptx")
	require.NoError(t, err)
	assert.Equal(t, "deck.pptx", file.Name)
	assert.Equal(t, []string{"pptx"}, exporter.SupportedFormats())

	_, err = InstrumentExporter(stubExporter{err: errors.New("boom")}, m).Export(context.Background(), &entities.RenderDeck{}, "pdf")
	assert.Error(t, err)

	metrics := m.GetMetrics()
	assert.Equal(t, int64(1), metrics.Exports["pptx"])
	assert.Equal(t, int64(1), metrics.ExportFailures)
}
