package ports

import (
	"context"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// ExportedFile describes a rendered file on disk
type ExportedFile struct {
	Path     string
	Name     string
	MimeType string
	Size     int64
}

// Exporter renders decks to files
type Exporter interface {
	// Export renders the deck in the given format
	Export(ctx context.Context, deck *entities.RenderDeck, format string) (*ExportedFile, error)

	// SupportedFormats lists the formats that have a renderer
	SupportedFormats() []string
}
