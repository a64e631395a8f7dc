package catalog

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// StaticResolver maps slide image paths onto files under the static directory
type StaticResolver struct {
	root string
}

// NewStaticResolver creates a resolver rooted at staticDir
func NewStaticResolver(staticDir string) (*StaticResolver, error) {
	root, err := filepath.Abs(staticDir)
	if err != nil {
		return nil, fmt.Errorf("resolving static dir: %w", err)
	}
	return &StaticResolver{root: root}, nil
}

// Root returns the absolute static directory
func (r *StaticResolver) Root() string {
	return r.root
}

// Resolve returns the absolute path of relPath, which must name an existing file inside the root
func (r *StaticResolver) Resolve(relPath string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(relPath, "\\", "/"))
	if relPath == "" || clean == "/" || strings.Contains(relPath, "..") {
		return "", fmt.Errorf("%w: %q", entities.ErrAssetNotFound, relPath)
	}

	abs := filepath.Join(r.root, filepath.FromSlash(strings.TrimPrefix(clean, "/")))
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", entities.ErrAssetNotFound, relPath)
	}
	return abs, nil
}

// Missing returns the catalog files that have no image under imagesDir
func (r *StaticResolver) Missing(catalog *entities.ImageCatalog, imagesDir string) []string {
	var missing []string
	if catalog == nil {
		return missing
	}
	for _, e := range catalog.Entries {
		if _, err := r.Resolve(path.Join(imagesDir, e.File)); err != nil {
			missing = append(missing, e.File)
		}
	}
	return missing
}

// Ensure StaticResolver implements ports.AssetResolver
var _ ports.AssetResolver = (*StaticResolver)(nil)
