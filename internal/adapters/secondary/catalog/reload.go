package catalog

import (
	"context"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// Reloader re-reads the catalog file on change events and hands the result to apply
type Reloader struct {
	loader ports.CatalogLoader
	apply  func(*entities.ImageCatalog)
	logger ports.Logger
}

// NewReloader creates a reloader; apply is typically ImageMatcher.Reload
func NewReloader(loader ports.CatalogLoader, apply func(*entities.ImageCatalog), logger ports.Logger) *Reloader {
	return &Reloader{loader: loader, apply: apply, logger: logger}
}

// Run consumes events until the channel closes or ctx ends.
// A catalog that fails to load leaves the current one in place.
func (r *Reloader) Run(ctx context.Context, events <-chan ports.FileChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			r.handle(ctx, event)
		}
	}
}

func (r *Reloader) handle(ctx context.Context, event ports.FileChangeEvent) {
	if event.Type == ports.Deleted {
		r.logger.Warn("Image catalog %s was removed, keeping the current catalog", event.Path)
		return
	}

	catalog, err := r.loader.Load(ctx)
	if err != nil {
		r.logger.Warn("Reloading image catalog: %v", err)
		return
	}
	r.apply(catalog)
	r.logger.Info("Image catalog reloaded: %d images", catalog.Len())
}
