package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// MaxInputRunes caps the source text accepted for generation
const MaxInputRunes = 20000

// PresentationService implements the business logic for stored decks
type PresentationService struct {
	generator ports.GenerationService
	repo      ports.PresentationRepository
	templates ports.TemplateRegistry
	assets    ports.AssetResolver
	exporter  ports.Exporter
	events    ports.EventPublisher
	clock     ports.TimeProvider
	logger    ports.Logger
	newID     func() string
}

// NewPresentationService creates a new presentation service instance
func NewPresentationService(
	generator ports.GenerationService,
	repo ports.PresentationRepository,
	templates ports.TemplateRegistry,
	assets ports.AssetResolver,
	exporter ports.Exporter,
	clock ports.TimeProvider,
	logger ports.Logger,
) *PresentationService {
	return &PresentationService{
		generator: generator,
		repo:      repo,
		templates: templates,
		assets:    assets,
		exporter:  exporter,
		clock:     clock,
		logger:    logger,
		newID:     func() string { return uuid.New().String() },
	}
}

// SetEventPublisher sets the sink notified after decks change
func (s *PresentationService) SetEventPublisher(events ports.EventPublisher) {
	s.events = events
}

// Create generates a deck from inputText and stores it. Nothing is stored unless generation succeeds.
func (s *PresentationService) Create(ctx context.Context, inputText string) (*entities.Presentation, error) {
	presentation, err := s.Draft(ctx, inputText)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, presentation); err != nil {
		return nil, fmt.Errorf("saving presentation: %w", err)
	}

	s.logger.Info("Created presentation %s with %d slides (template %s)", presentation.ID, len(presentation.Slides), presentation.TemplateID)
	s.publish(ports.EventTypeDeckGenerated, presentation)
	return presentation, nil
}

// Draft generates a deck without storing it
func (s *PresentationService) Draft(ctx context.Context, inputText string) (*entities.Presentation, error) {
	if strings.TrimSpace(inputText) == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", entities.ErrInvalidInput)
	}
	if utf8.RuneCountInString(inputText) > MaxInputRunes {
		return nil, fmt.Errorf("%w: text exceeds %d characters", entities.ErrInvalidInput, MaxInputRunes)
	}

	templateID, err := s.templates.Default()
	if err != nil {
		return nil, fmt.Errorf("selecting template: %w", err)
	}

	slides, err := s.generator.Generate(ctx, inputText)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	presentation := &entities.Presentation{
		ID:         s.newID(),
		InputText:  inputText,
		TemplateID: templateID,
		CreatedAt:  now,
		UpdatedAt:  now,
		Slides:     slides,
	}
	for i := range presentation.Slides {
		presentation.Slides[i].ID = s.newID()
	}

	return presentation, nil
}

// Get loads a deck by id
func (s *PresentationService) Get(ctx context.Context, id string) (*entities.Presentation, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	presentation, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading presentation %s: %w", id, err)
	}
	return presentation, nil
}

// Update replaces the slides and template of an existing deck
func (s *PresentationService) Update(ctx context.Context, id string, update entities.PresentationUpdate) (*entities.Presentation, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if update.ID != "" && update.ID != id {
		return nil, entities.ErrIDMismatch
	}

	templateID := update.TemplateID
	if templateID != "" && !s.hasTemplate(templateID) {
		return nil, fmt.Errorf("%w: unknown template %s", entities.ErrInvalidInput, templateID)
	}

	slides := make([]entities.Slide, len(update.Slides))
	copy(slides, update.Slides)
	for i := range slides {
		if err := slides[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: slide %d: %v", entities.ErrInvalidInput, i, err)
		}
		if slides[i].ID == "" {
			slides[i].ID = s.newID()
		}
		if slides[i].Points == nil {
			slides[i].Points = []string{}
		}
		if slides[i].VisualKeywords == nil {
			slides[i].VisualKeywords = []string{}
		}
	}

	presentation, err := s.repo.ReplaceSlides(ctx, id, templateID, slides)
	if err != nil {
		return nil, fmt.Errorf("updating presentation %s: %w", id, err)
	}

	s.logger.Info("Updated presentation %s (%d slides)", id, len(slides))
	s.publish(ports.EventTypeDeckUpdated, presentation)
	return presentation, nil
}

// Delete removes a deck
func (s *PresentationService) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting presentation %s: %w", id, err)
	}
	s.publish(ports.EventTypeDeckDeleted, map[string]string{"id": id})
	return nil
}

// List returns recent decks, newest first
func (s *PresentationService) List(ctx context.Context, limit int) ([]entities.PresentationSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, limit)
}

// Templates lists the registered templates
func (s *PresentationService) Templates() []entities.Template {
	return s.templates.List()
}

// Export renders a stored deck. Missing templates and images degrade instead of failing.
func (s *PresentationService) Export(ctx context.Context, id string, format string) (*ports.ExportedFile, error) {
	presentation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Render(ctx, presentation, format)
}

// Render exports a deck that may not have been stored
func (s *PresentationService) Render(ctx context.Context, presentation *entities.Presentation, format string) (*ports.ExportedFile, error) {
	if presentation == nil || len(presentation.Slides) == 0 {
		return nil, entities.ErrNoSlides
	}
	id := presentation.ID

	deck := &entities.RenderDeck{
		ID:     id,
		Theme:  s.resolveTheme(ctx, presentation.TemplateID),
		Slides: make([]entities.RenderSlide, 0, len(presentation.Slides)),
	}

	for _, slide := range presentation.Slides {
		rs := entities.RenderSlide{
			Title:  slide.Title,
			Points: slide.Points,
			Notes:  slide.Notes,
		}
		if slide.HasImage() {
			abs, err := s.assets.Resolve(slide.ImagePath())
			if err != nil {
				s.logger.Warn("Slide %d of %s: %v, rendering without image", slide.Order, id, err)
			} else {
				rs.ImagePath = abs
			}
		}
		deck.Slides = append(deck.Slides, rs)
	}

	file, err := s.exporter.Export(ctx, deck, format)
	if err != nil {
		return nil, fmt.Errorf("exporting presentation %s: %w", id, err)
	}

	s.logger.Info("Exported presentation %s as %s to %s", id, format, file.Path)
	return file, nil
}

// resolveTheme loads the deck's template theme, falling back to the default one
func (s *PresentationService) resolveTheme(ctx context.Context, templateID string) entities.Theme {
	if templateID == "" {
		if def, err := s.templates.Default(); err == nil {
			templateID = def
		}
	}

	theme, err := s.templates.Theme(ctx, templateID)
	if err != nil {
		var loadErr *entities.TemplateLoadError
		if errors.As(err, &loadErr) {
			s.logger.Warn("Template %s unavailable, using default theme: %v", templateID, err)
		} else {
			s.logger.Warn("Resolving template %s: %v", templateID, err)
		}
		return entities.DefaultTheme()
	}
	return theme.WithDefaults()
}

func (s *PresentationService) hasTemplate(id string) bool {
	for _, t := range s.templates.List() {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s *PresentationService) publish(eventType string, data interface{}) {
	if s.events == nil {
		return
	}
	s.events.Publish(ports.UpdateEvent{
		Type:      eventType,
		Timestamp: s.clock.Now(),
		Data:      data,
	})
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", entities.ErrPresentationNotFound, id)
	}
	return nil
}

// Ensure PresentationService implements ports.PresentationService
var _ ports.PresentationService = (*PresentationService)(nil)
