package ports

import (
	"context"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// GenerationService runs the text-to-slides pipeline
type GenerationService interface {
	// Generate returns the slides for the input text, images attached
	Generate(ctx context.Context, inputText string) ([]entities.Slide, error)
}

// PresentationService manages stored decks
type PresentationService interface {
	// Create generates and persists a new deck
	Create(ctx context.Context, inputText string) (*entities.Presentation, error)

	// Get loads a deck by id
	Get(ctx context.Context, id string) (*entities.Presentation, error)

	// Update replaces the slides and template of a deck
	Update(ctx context.Context, id string, update entities.PresentationUpdate) (*entities.Presentation, error)

	// Delete removes a deck
	Delete(ctx context.Context, id string) error

	// List returns recent decks
	List(ctx context.Context, limit int) ([]entities.PresentationSummary, error)

	// Export renders a deck and returns the file
	Export(ctx context.Context, id string, format string) (*ExportedFile, error)

	// Templates lists the registered templates
	Templates() []entities.Template
}
