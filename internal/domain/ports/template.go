package ports

import (
	"context"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// TemplateRegistry resolves template ids to themes
type TemplateRegistry interface {
	// List returns the registered templates in declaration order
	List() []entities.Template

	// Default returns the id picked for new decks
	Default() (string, error)

	// Theme loads the theme of a template; failures are *entities.TemplateLoadError
	Theme(ctx context.Context, id string) (entities.Theme, error)

	// Exists reports whether the template file is present on disk
	Exists(id string) bool
}

// AssetResolver maps slide image paths to files on disk
type AssetResolver interface {
	// Resolve returns an absolute path or wraps entities.ErrAssetNotFound
	Resolve(relPath string) (string, error)
}
