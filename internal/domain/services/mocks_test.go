package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

type MockModelClient struct {
	mock.Mock
}

func (m *MockModelClient) Invoke(ctx context.Context, req ports.ModelRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockModelClient) Name() string {
	return "test-model"
}

type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) Generate(ctx context.Context, inputText string) ([]entities.Slide, error) {
	args := m.Called(ctx, inputText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Slide), args.Error(1)
}

type MockPresentationRepository struct {
	mock.Mock
}

func (m *MockPresentationRepository) Save(ctx context.Context, presentation *entities.Presentation) error {
	args := m.Called(ctx, presentation)
	return args.Error(0)
}

func (m *MockPresentationRepository) Load(ctx context.Context, id string) (*entities.Presentation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Presentation), args.Error(1)
}

func (m *MockPresentationRepository) ReplaceSlides(ctx context.Context, id string, templateID string, slides []entities.Slide) (*entities.Presentation, error) {
	args := m.Called(ctx, id, templateID, slides)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Presentation), args.Error(1)
}

func (m *MockPresentationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPresentationRepository) List(ctx context.Context, limit int) ([]entities.PresentationSummary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.PresentationSummary), args.Error(1)
}

type MockTemplateRegistry struct {
	mock.Mock
}

func (m *MockTemplateRegistry) List() []entities.Template {
	args := m.Called()
	return args.Get(0).([]entities.Template)
}

func (m *MockTemplateRegistry) Default() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockTemplateRegistry) Theme(ctx context.Context, id string) (entities.Theme, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.Theme), args.Error(1)
}

func (m *MockTemplateRegistry) Exists(id string) bool {
	args := m.Called(id)
	return args.Bool(0)
}

type MockAssetResolver struct {
	mock.Mock
}

func (m *MockAssetResolver) Resolve(relPath string) (string, error) {
	args := m.Called(relPath)
	return args.String(0), args.Error(1)
}

type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Export(ctx context.Context, deck *entities.RenderDeck, format string) (*ports.ExportedFile, error) {
	args := m.Called(ctx, deck, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ExportedFile), args.Error(1)
}

func (m *MockExporter) SupportedFormats() []string {
	return []string{"pptx", "pdf", "html", "png"}
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event ports.UpdateEvent) {
	m.Called(event)
}

type MockConfigLoader struct {
	mock.Mock
}

func (m *MockConfigLoader) LoadGlobal(ctx context.Context) (*entities.Config, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Config), args.Error(1)
}

func (m *MockConfigLoader) LoadLocal(ctx context.Context, dir string) (*entities.Config, error) {
	args := m.Called(ctx, dir)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Config), args.Error(1)
}

func (m *MockConfigLoader) LoadFile(ctx context.Context, path string) (*entities.Config, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Config), args.Error(1)
}

func (m *MockConfigLoader) CreateDefaults(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockConfigLoader) GetGlobalPath() string {
	args := m.Called()
	return args.String(0)
}

type MockConfigMerger struct {
	mock.Mock
}

func (m *MockConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	args := m.Called(configs)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*entities.Config)
}

func (m *MockConfigMerger) ApplyOverrides(config *entities.Config, overrides ports.ConfigOverrides) *entities.Config {
	args := m.Called(config, overrides)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*entities.Config)
}

func (m *MockConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	args := m.Called(config)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*entities.Config)
}

// fixedClock always reports the same instant
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func (c fixedClock) Since(t time.Time) time.Duration {
	return c.now.Sub(t)
}
