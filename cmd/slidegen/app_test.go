package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/slidegen/internal/adapters/secondary/config"
	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/test/builders"
)

const testTheme = `background: "#FFFFFF"
title_color: "#111111"
body_color: "#333333"
accent_color: "#2563EB"
font: Calibri
title_size: 36
body_size: 20
`

// testConfig returns a config whose paths all live under a temp dir
func testConfig(t *testing.T) *entities.Config {
	t.Helper()
	dir := t.TempDir()

	static := filepath.Join(dir, "static")
	require.NoError(t, os.MkdirAll(filepath.Join(static, "images"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "templates", "simple.yaml"), []byte(testTheme), 0o644))

	cfg := config.GetDefaultConfig()
	cfg.Model.APIKey = ""
	cfg.Assets.StaticDir = static
	cfg.Assets.CatalogFile = ""
	cfg.Templates = entities.TemplatesConfig{
		Default: "simple",
		Entries: []entities.Template{
			{ID: "simple", Name: "Simple", Path: filepath.Join(dir, "templates", "simple.yaml")},
			{ID: "gone", Name: "Gone", Path: filepath.Join(dir, "templates", "gone.yaml")},
		},
	}
	cfg.Database = entities.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(dir, "test.db"), AutoMigrate: true}
	cfg.Export.OutputDir = filepath.Join(dir, "out")
	cfg.Logging = entities.LoggingConfig{Level: "error"}
	return cfg
}

func TestNewApp(t *testing.T) {
	t.Run("wires every service with the store", func(t *testing.T) {
		cfg := testConfig(t)

		a, err := newApp(context.Background(), cfg, appOptions{withStore: true})
		require.NoError(t, err)
		defer a.Close()

		assert.NotNil(t, a.db)
		assert.Equal(t, entities.DefaultImageCatalog().Len(), a.matcher.Size())
		assert.Len(t, a.registry.List(), 2)
		assert.DirExists(t, cfg.Export.OutputDir)

		list, err := a.presentations.List(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("without the model generation fails as a request error", func(t *testing.T) {
		a, err := newApp(context.Background(), testConfig(t), appOptions{})
		require.NoError(t, err)
		defer a.Close()

		_, err = a.presentations.Draft(context.Background(), "Some text")
		var reqErr *entities.RequestError
		assert.True(t, errors.As(err, &reqErr))
	})

	t.Run("without the store persistence is refused", func(t *testing.T) {
		a, err := newApp(context.Background(), testConfig(t), appOptions{})
		require.NoError(t, err)
		defer a.Close()

		assert.Nil(t, a.db)
		_, err = a.presentations.List(context.Background(), 10)
		assert.ErrorIs(t, err, errStoreDisabled)
	})

	t.Run("missing api key is reported when the model is required", func(t *testing.T) {
		_, err := newApp(context.Background(), testConfig(t), appOptions{withModel: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuring model client")
	})

	t.Run("renders an unsaved deck", func(t *testing.T) {
		a, err := newApp(context.Background(), testConfig(t), appOptions{})
		require.NoError(t, err)
		defer a.Close()

		deck := builders.NewPresentationBuilder().WithTemplate("simple").WithSlideCount(2).Build()
		file, err := a.presentations.Render(context.Background(), deck, "html")
		require.NoError(t, err)
		assert.FileExists(t, file.Path)
		assert.Equal(t, "presentation_"+deck.ID+".html", file.Name)
		assert.Equal(t, int64(1), a.monitor.GetMetrics().Exports["html"])
	})
}

func TestCatalogPath(t *testing.T) {
	cfg := testConfig(t)

	assert.Empty(t, catalogPath(cfg), "no catalog file next to the images")

	shipped := filepath.Join(cfg.Assets.StaticDir, "images", defaultCatalogName)
	require.NoError(t, os.WriteFile(shipped, []byte("images:\n  - file: a.jpg\n    keywords: [a]\n"), 0o644))
	assert.Equal(t, shipped, catalogPath(cfg))

	cfg.Assets.CatalogFile = "/etc/slidegen/catalog.yaml"
	assert.Equal(t, "/etc/slidegen/catalog.yaml", catalogPath(cfg))
}

func TestNewAppUsesShippedCatalog(t *testing.T) {
	cfg := testConfig(t)
	shipped := filepath.Join(cfg.Assets.StaticDir, "images", defaultCatalogName)
	require.NoError(t, os.WriteFile(shipped, []byte("images:\n  - file: a.jpg\n    keywords: [a]\n"), 0o644))

	a, err := newApp(context.Background(), cfg, appOptions{})
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, 1, a.matcher.Size())
}

func TestStartCatalogWatch(t *testing.T) {
	t.Run("built-in catalog has nothing to watch", func(t *testing.T) {
		a, err := newApp(context.Background(), testConfig(t), appOptions{})
		require.NoError(t, err)
		defer a.Close()

		_, err = startCatalogWatch(context.Background(), a, a.logger)
		assert.Error(t, err)
	})

	t.Run("edits reach the matcher", func(t *testing.T) {
		cfg := testConfig(t)
		shipped := filepath.Join(cfg.Assets.StaticDir, "images", defaultCatalogName)
		require.NoError(t, os.WriteFile(shipped, []byte("images:\n  - file: a.jpg\n    keywords: [a]\n"), 0o644))

		a, err := newApp(context.Background(), cfg, appOptions{})
		require.NoError(t, err)
		defer a.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		stop, err := startCatalogWatch(ctx, a, a.logger)
		require.NoError(t, err)
		defer stop()

		edited := "images:\n  - file: a.jpg\n    keywords: [a]\n  - file: b.jpg\n    keywords: [b]\n"
		require.NoError(t, os.WriteFile(shipped, []byte(edited), 0o644))

		assert.Eventually(t, func() bool { return a.matcher.Size() == 2 }, 5*time.Second, 50*time.Millisecond)
	})
}
