package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// YAMLLoader reads the image catalog from a YAML file of the form
//
//	images:
//	  - file: city_night.jpg
//	    keywords: [city, night]
//
// With no path configured the built-in catalog is returned.
type YAMLLoader struct {
	path string
}

// NewYAMLLoader creates a loader for path; an empty path selects the built-in catalog
func NewYAMLLoader(path string) *YAMLLoader {
	return &YAMLLoader{path: path}
}

// Load reads and validates the catalog
func (l *YAMLLoader) Load(ctx context.Context) (*entities.ImageCatalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.path == "" {
		return entities.DefaultImageCatalog(), nil
	}

	data, err := os.ReadFile(l.path) // #nosec G304 - path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("reading image catalog: %w", err)
	}

	catalog, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image catalog %s: %w", l.path, err)
	}
	return catalog, nil
}

// Decode parses and validates a YAML catalog
func Decode(r io.Reader) (*entities.ImageCatalog, error) {
	var catalog entities.ImageCatalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&catalog); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, entities.ErrEmptyCatalog
		}
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if len(catalog.Entries) == 0 {
		return nil, entities.ErrEmptyCatalog
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Ensure YAMLLoader implements ports.CatalogLoader
var _ ports.CatalogLoader = (*YAMLLoader)(nil)
