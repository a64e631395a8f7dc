package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// GenerationSettings bounds a single model call
type GenerationSettings struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// GenerationService sequences prompt, model call, parsing, intro filtering and image matching.
// It holds no per-call state and is safe for concurrent use.
type GenerationService struct {
	prompts  *PromptBuilder
	model    ports.ModelClient
	parser   ports.ResponseParser
	matcher  ports.ImageMatcher
	settings GenerationSettings
	logger   ports.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(
	prompts *PromptBuilder,
	model ports.ModelClient,
	parser ports.ResponseParser,
	matcher ports.ImageMatcher,
	settings GenerationSettings,
	logger ports.Logger,
) *GenerationService {
	return &GenerationService{
		prompts:  prompts,
		model:    model,
		parser:   parser,
		matcher:  matcher,
		settings: settings,
		logger:   logger,
	}
}

// Generate turns input text into ordered slides with images attached
func (s *GenerationService) Generate(ctx context.Context, inputText string) ([]entities.Slide, error) {
	raw, err := s.invoke(ctx, inputText)
	if err != nil {
		return nil, err
	}

	slides, err := s.parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing model reply: %w", err)
	}
	parsed := len(slides)

	slides = DropIntroIfPresent(slides)
	if len(slides) == 0 {
		return nil, entities.ErrEmptyGeneration
	}
	if len(slides) < parsed {
		s.logger.Debug("Dropped intro slide, %d slides remain", len(slides))
	}

	for i := range slides {
		result := s.matcher.Match(slides[i].VisualKeywords)
		slides[i].LocalImagePath = result.Path
		if result.Fallback {
			s.logger.Warn("Slide %d %q has no keyword match, image chosen at random", i, slides[i].Title)
		}
	}

	s.logger.Info("Generated %d slides", len(slides))
	return slides, nil
}

// invoke performs the single bounded model call; failures are never retried here
func (s *GenerationService) invoke(ctx context.Context, inputText string) (string, error) {
	if s.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.Timeout)
		defer cancel()
	}

	started := time.Now()
	raw, err := s.model.Invoke(ctx, ports.ModelRequest{
		SystemPrompt: s.prompts.SystemPrompt(),
		UserPrompt:   s.prompts.Build(inputText),
		MaxTokens:    s.settings.MaxTokens,
		Temperature:  s.settings.Temperature,
	})
	if err != nil {
		var reqErr *entities.RequestError
		if errors.As(err, &reqErr) {
			return "", err
		}
		return "", &entities.RequestError{Model: s.model.Name(), Cause: err}
	}

	s.logger.Debug("Model %s replied in %s (%d bytes)", s.model.Name(), time.Since(started).Round(time.Millisecond), len(raw))
	return raw, nil
}

// Ensure GenerationService implements ports.GenerationService
var _ ports.GenerationService = (*GenerationService)(nil)
