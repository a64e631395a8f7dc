package templates

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// Registry serves the templates declared in configuration.
// Theme files are read on first use and cached until Invalidate.
type Registry struct {
	entries    []entities.Template
	byID       map[string]entities.Template
	defaultID  string
	mu         sync.RWMutex
	themeCache map[string]entities.Theme
}

// NewRegistry creates a registry from the templates configuration
func NewRegistry(cfg entities.TemplatesConfig) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid templates config: %w", err)
	}

	r := &Registry{
		entries:    append([]entities.Template{}, cfg.Entries...),
		byID:       make(map[string]entities.Template, len(cfg.Entries)),
		defaultID:  cfg.Default,
		themeCache: make(map[string]entities.Theme),
	}
	for _, e := range cfg.Entries {
		if e.Name == "" {
			e.Name = e.ID
		}
		r.byID[e.ID] = e
	}
	for i := range r.entries {
		r.entries[i] = r.byID[r.entries[i].ID]
	}
	return r, nil
}

// List returns the registered templates in declaration order
func (r *Registry) List() []entities.Template {
	return append([]entities.Template{}, r.entries...)
}

// Default returns the configured default when registered, else the first entry
func (r *Registry) Default() (string, error) {
	if len(r.entries) == 0 {
		return "", entities.ErrNoTemplates
	}
	if _, ok := r.byID[r.defaultID]; ok {
		return r.defaultID, nil
	}
	return r.entries[0].ID, nil
}

// Exists reports whether the template is registered and its file is present
func (r *Registry) Exists(id string) bool {
	t, ok := r.byID[id]
	if !ok {
		return false
	}
	info, err := os.Stat(t.Path)
	return err == nil && !info.IsDir()
}

// MissingFiles lists registered templates whose file cannot be found
func (r *Registry) MissingFiles() []entities.Template {
	var missing []entities.Template
	for _, t := range r.entries {
		if !r.Exists(t.ID) {
			missing = append(missing, t)
		}
	}
	return missing
}

// Theme loads the theme declared by a template file
func (r *Registry) Theme(ctx context.Context, id string) (entities.Theme, error) {
	if err := ctx.Err(); err != nil {
		return entities.Theme{}, err
	}

	t, ok := r.byID[id]
	if !ok {
		return entities.Theme{}, &entities.TemplateLoadError{TemplateID: id, Cause: errors.New("template not registered")}
	}

	r.mu.RLock()
	cached, hit := r.themeCache[id]
	r.mu.RUnlock()
	if hit {
		return cached, nil
	}

	theme, err := loadTheme(t)
	if err != nil {
		return entities.Theme{}, &entities.TemplateLoadError{TemplateID: id, Path: t.Path, Cause: err}
	}

	r.mu.Lock()
	r.themeCache[id] = theme
	r.mu.Unlock()
	return theme, nil
}

// Invalidate drops cached themes so edited files are read again
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.themeCache = make(map[string]entities.Theme)
	r.mu.Unlock()
}

func loadTheme(t entities.Template) (entities.Theme, error) {
	data, err := os.ReadFile(t.Path) // #nosec G304 - path comes from configuration
	if err != nil {
		return entities.Theme{}, err
	}

	var theme entities.Theme
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return entities.Theme{}, fmt.Errorf("parsing yaml: %w", err)
	}
	if theme.Name == "" {
		theme.Name = t.ID
	}
	if err := theme.Validate(); err != nil {
		return entities.Theme{}, err
	}
	return theme.WithDefaults(), nil
}

// Ensure Registry implements ports.TemplateRegistry
var _ ports.TemplateRegistry = (*Registry)(nil)
