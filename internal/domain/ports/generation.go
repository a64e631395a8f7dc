package ports

import (
	"context"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// ModelRequest is a single chat completion request
type ModelRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// ModelClient sends a prompt to a language model and returns its text reply
type ModelClient interface {
	// Invoke performs one completion call; it never retries
	Invoke(ctx context.Context, req ModelRequest) (string, error)

	// Name identifies the model for logs and errors
	Name() string
}

// ResponseParser turns the model's free text into slides
type ResponseParser interface {
	// Parse returns one slide per non-empty block, or entities.ErrEmptyGeneration
	Parse(raw string) ([]entities.Slide, error)
}

// ImageMatcher picks a catalog image for a slide's visual keywords
type ImageMatcher interface {
	Match(keywords []string) MatchResult
}

// MatchResult is the outcome of an image match
type MatchResult struct {
	// Path is relative to the static root, nil when nothing was selected
	Path *string

	// Score is the number of shared keywords with the chosen entry
	Score int

	// Fallback is true when the image was picked at random
	Fallback bool
}

// CatalogLoader reads the image catalog
type CatalogLoader interface {
	Load(ctx context.Context) (*entities.ImageCatalog, error)
}
