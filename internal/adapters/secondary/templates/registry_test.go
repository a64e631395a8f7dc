package templates

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

func writeTheme(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestNewRegistry(t *testing.T) {
	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := NewRegistry(entities.TemplatesConfig{Entries: []entities.Template{
			{ID: "a", Path: "a.yaml"},
			{ID: "a", Path: "b.yaml"},
		}})
		assert.Error(t, err)
	})

	t.Run("names default to ids", func(t *testing.T) {
		r, err := NewRegistry(entities.TemplatesConfig{Entries: []entities.Template{{ID: "a", Path: "a.yaml"}}})
		require.NoError(t, err)
		assert.Equal(t, "a", r.List()[0].Name)
	})
}

func TestRegistry_Default(t *testing.T) {
	entries := []entities.Template{
		{ID: "default_simple", Path: "s.yaml"},
		{ID: "dark_tech", Path: "d.yaml"},
	}

	tests := []struct {
		name       string
		configured string
		entries    []entities.Template
		want       string
		wantErr    error
	}{
		{name: "configured", configured: "dark_tech", entries: entries, want: "dark_tech"},
		{name: "unknown falls back to first", configured: "missing", entries: entries, want: "default_simple"},
		{name: "unset falls back to first", entries: entries, want: "default_simple"},
		{name: "none registered", configured: "dark_tech", wantErr: entities.ErrNoTemplates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(entities.TemplatesConfig{Default: tt.configured, Entries: tt.entries})
			require.NoError(t, err)

			got, err := r.Default()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry_Theme(t *testing.T) {
	dir := t.TempDir()
	good := writeTheme(t, dir, "dark.yaml", `name: Dark Tech
background: "#0F172A"
title_color: "#F8FAFC"
body_color: "#CBD5E1"
accent_color: "#38BDF8"
font: Consolas
title_size: 40
`)
	broken := writeTheme(t, dir, "broken.yaml", "background: [not, a, color\n")
	badColor := writeTheme(t, dir, "bad.yaml", "background: \"#GGGGGG\"\n")

	r, err := NewRegistry(entities.TemplatesConfig{Entries: []entities.Template{
		{ID: "dark_tech", Path: good},
		{ID: "broken", Path: broken},
		{ID: "bad_color", Path: badColor},
		{ID: "gone", Path: filepath.Join(dir, "gone.yaml")},
	}})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("loads and fills defaults", func(t *testing.T) {
		theme, err := r.Theme(ctx, "dark_tech")
		require.NoError(t, err)
		assert.Equal(t, "Dark Tech", theme.Name)
		assert.Equal(t, "#0F172A", theme.Background)
		assert.Equal(t, 40, theme.TitleSize)
		assert.Equal(t, entities.DefaultTheme().BodySize, theme.BodySize)
	})

	t.Run("cached until invalidated", func(t *testing.T) {
		require.NoError(t, os.WriteFile(good, []byte("name: Edited\n"), 0o600))

		theme, err := r.Theme(ctx, "dark_tech")
		require.NoError(t, err)
		assert.Equal(t, "Dark Tech", theme.Name)

		r.Invalidate()
		theme, err = r.Theme(ctx, "dark_tech")
		require.NoError(t, err)
		assert.Equal(t, "Edited", theme.Name)
	})

	for _, id := range []string{"broken", "bad_color", "gone", "unregistered"} {
		t.Run("load error for "+id, func(t *testing.T) {
			_, err := r.Theme(ctx, id)
			var loadErr *entities.TemplateLoadError
			require.True(t, errors.As(err, &loadErr))
			assert.Equal(t, id, loadErr.TemplateID)
		})
	}
}

func TestRegistry_ExistsAndMissing(t *testing.T) {
	dir := t.TempDir()
	present := writeTheme(t, dir, "a.yaml", "name: A\n")

	r, err := NewRegistry(entities.TemplatesConfig{Entries: []entities.Template{
		{ID: "a", Path: present},
		{ID: "b", Path: filepath.Join(dir, "b.yaml")},
	}})
	require.NoError(t, err)

	assert.True(t, r.Exists("a"))
	assert.False(t, r.Exists("b"))
	assert.False(t, r.Exists("c"))

	missing := r.MissingFiles()
	require.Len(t, missing, 1)
	assert.Equal(t, "b", missing[0].ID)
}
