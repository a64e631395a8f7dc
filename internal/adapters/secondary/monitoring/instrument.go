package monitoring

import (
	"context"
	"time"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// InstrumentedGenerator times every pipeline run
type InstrumentedGenerator struct {
	next    ports.GenerationService
	metrics ports.Metrics
}

// InstrumentGenerator wraps next so each Generate call is recorded
func InstrumentGenerator(next ports.GenerationService, metrics ports.Metrics) *InstrumentedGenerator {
	return &InstrumentedGenerator{next: next, metrics: metrics}
}

// Generate delegates and records the duration and outcome
func (g *InstrumentedGenerator) Generate(ctx context.Context, inputText string) ([]entities.Slide, error) {
	start := time.Now()
	slides, err := g.next.Generate(ctx, inputText)
	g.metrics.RecordGeneration(time.Since(start), err)
	return slides, err
}

// InstrumentedExporter times every rendered file
type InstrumentedExporter struct {
	next    ports.Exporter
	metrics ports.Metrics
}

// InstrumentExporter wraps next so each Export call is recorded
func InstrumentExporter(next ports.Exporter, metrics ports.Metrics) *InstrumentedExporter {
	return &InstrumentedExporter{next: next, metrics: metrics}
}

// Export delegates and records the duration and outcome
func (e *InstrumentedExporter) Export(ctx context.Context, deck *entities.RenderDeck, format string) (*ports.ExportedFile, error) {
	start := time.Now()
	file, err := e.next.Export(ctx, deck, format)
	e.metrics.RecordExport(format, time.Since(start), err)
	return file, err
}

// SupportedFormats lists the wrapped exporter's formats
func (e *InstrumentedExporter) SupportedFormats() []string {
	return e.next.SupportedFormats()
}

var (
	_ ports.GenerationService = (*InstrumentedGenerator)(nil)
	_ ports.Exporter          = (*InstrumentedExporter)(nil)
)
