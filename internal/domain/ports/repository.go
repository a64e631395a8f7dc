package ports

import (
	"context"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// PresentationRepository persists generated decks
type PresentationRepository interface {
	// Save stores a new presentation with its slides
	Save(ctx context.Context, presentation *entities.Presentation) error

	// Load returns the presentation with slides ordered by Order
	Load(ctx context.Context, id string) (*entities.Presentation, error)

	// ReplaceSlides swaps the slide list and template of an existing presentation
	ReplaceSlides(ctx context.Context, id string, templateID string, slides []entities.Slide) (*entities.Presentation, error)

	// Delete removes a presentation and its slides
	Delete(ctx context.Context, id string) error

	// List returns the most recent presentations first
	List(ctx context.Context, limit int) ([]entities.PresentationSummary, error)
}
