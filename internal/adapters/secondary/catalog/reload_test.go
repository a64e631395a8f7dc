package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fredcamaral/slidegen/internal/adapters/secondary/logging"
	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

func runReloader(t *testing.T, path string, events ...ports.FileChangeEvent) ([]*entities.ImageCatalog, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)

	var applied []*entities.ImageCatalog
	r := NewReloader(NewYAMLLoader(path), func(c *entities.ImageCatalog) {
		applied = append(applied, c)
	}, logging.NewFromZap(zap.New(core), false))

	ch := make(chan ports.FileChangeEvent, len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)

	done := make(chan struct{})
	go func() {
		r.Run(context.Background(), ch)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reloader did not stop when the channel closed")
	}
	return applied, logs
}

func TestReloader_Run(t *testing.T) {
	t.Run("modified file is applied", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("images:\n  - file: a.jpg\n    keywords: [ocean]\n"), 0o600))

		applied, logs := runReloader(t, path, ports.FileChangeEvent{Path: path, Type: ports.Modified})

		require.Len(t, applied, 1)
		assert.Equal(t, "a.jpg", applied[0].Entries[0].File)
		assert.Equal(t, 1, logs.FilterMessageSnippet("reloaded: 1 images").Len())
	})

	t.Run("invalid file keeps the current catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		require.NoError(t, os.WriteFile(path, []byte("images:\n  - file: ../escape.jpg\n"), 0o600))

		applied, logs := runReloader(t, path, ports.FileChangeEvent{Path: path, Type: ports.Modified})

		assert.Empty(t, applied)
		assert.Equal(t, 1, logs.FilterMessageSnippet("Reloading image catalog").Len())
	})

	t.Run("deleted file keeps the current catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")

		applied, logs := runReloader(t, path, ports.FileChangeEvent{Path: path, Type: ports.Deleted})

		assert.Empty(t, applied)
		assert.Equal(t, 1, logs.FilterMessageSnippet("was removed").Len())
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		r := NewReloader(NewYAMLLoader(""), func(*entities.ImageCatalog) {}, logging.NewNop())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		done := make(chan struct{})
		go func() {
			r.Run(ctx, make(chan ports.FileChangeEvent))
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("reloader ignored cancellation")
		}
	})
}
