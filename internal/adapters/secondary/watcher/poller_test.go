package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/slidegen/internal/adapters/secondary/logging"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newCatalogFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	writeFile(t, path, "images: []\n")
	return path
}

func waitEvent(t *testing.T, events <-chan ports.FileChangeEvent) ports.FileChangeEvent {
	t.Helper()
	select {
	case event := <-events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
	return ports.FileChangeEvent{}
}

func TestNewPollingWatcher(t *testing.T) {
	w := NewPollingWatcher(100*time.Millisecond, 500*time.Millisecond, logging.NewNop())
	assert.Equal(t, 100*time.Millisecond, w.interval)
	assert.Equal(t, 500*time.Millisecond, w.debounce)

	w = NewPollingWatcher(0, -time.Second, logging.NewNop())
	assert.Equal(t, time.Second, w.interval)
	assert.Zero(t, w.debounce)
}

func TestPollingWatcher_Modified(t *testing.T) {
	path := newCatalogFile(t)
	w := NewPollingWatcher(10*time.Millisecond, 0, logging.NewNop())
	defer func() { _ = w.Stop() }()

	events, err := w.Watch(context.Background(), path)
	require.NoError(t, err)

	writeFile(t, path, "images:\n  - file: city_night.jpg\n")

	event := waitEvent(t, events)
	assert.Equal(t, path, event.Path)
	assert.Equal(t, ports.Modified, event.Type)
	assert.WithinDuration(t, time.Now(), event.Timestamp, 2*time.Second)
}

func TestPollingWatcher_DebounceCoalescesWrites(t *testing.T) {
	path := newCatalogFile(t)
	w := NewPollingWatcher(10*time.Millisecond, 150*time.Millisecond, logging.NewNop())
	defer func() { _ = w.Stop() }()

	events, err := w.Watch(context.Background(), path)
	require.NoError(t, err)

	content := "images: []\n"
	for i := 0; i < 5; i++ {
		content += "# edit\n"
		writeFile(t, path, content)
		time.Sleep(20 * time.Millisecond)
	}

	waitEvent(t, events)
	select {
	case event := <-events:
		t.Fatalf("unexpected second event: %+v", event)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestPollingWatcher_DeletedThenRecreated(t *testing.T) {
	path := newCatalogFile(t)
	w := NewPollingWatcher(10*time.Millisecond, 0, logging.NewNop())
	defer func() { _ = w.Stop() }()

	events, err := w.Watch(context.Background(), path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	assert.Equal(t, ports.Deleted, waitEvent(t, events).Type)

	writeFile(t, path, "images:\n  - file: nature_landscape.jpg\n")
	assert.Equal(t, ports.Modified, waitEvent(t, events).Type)
}

func TestPollingWatcher_UnchangedContent(t *testing.T) {
	path := newCatalogFile(t)
	w := NewPollingWatcher(10*time.Millisecond, 0, logging.NewNop())
	defer func() { _ = w.Stop() }()

	events, err := w.Watch(context.Background(), path)
	require.NoError(t, err)

	// same bytes with a new mtime
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	select {
	case event := <-events:
		t.Fatalf("unexpected event: %+v", event)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestPollingWatcher_Watch(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		w := NewPollingWatcher(10*time.Millisecond, 0, logging.NewNop())
		_, err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "initial scan")
	})

	t.Run("second watch is rejected", func(t *testing.T) {
		path := newCatalogFile(t)
		w := NewPollingWatcher(10*time.Millisecond, 0, logging.NewNop())
		defer func() { _ = w.Stop() }()

		_, err := w.Watch(context.Background(), path)
		require.NoError(t, err)
		_, err = w.Watch(context.Background(), path)
		assert.ErrorIs(t, err, ErrAlreadyWatching)
	})

	t.Run("checksum failure is logged and polling continues", func(t *testing.T) {
		path := newCatalogFile(t)
		w := NewPollingWatcher(10*time.Millisecond, 0, logging.NewNop())
		defer func() { _ = w.Stop() }()

		var failing atomic.Bool
		w.hashFile = func(p string) (string, error) {
			if failing.Load() {
				return "", errors.New("permission denied")
			}
			return checksum(p)
		}

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)

		failing.Store(true)
		writeFile(t, path, "images: [broken")
		time.Sleep(50 * time.Millisecond)

		failing.Store(false)
		assert.Equal(t, ports.Modified, waitEvent(t, events).Type)
	})
}

func TestPollingWatcher_Stop(t *testing.T) {
	t.Run("closes the event channel", func(t *testing.T) {
		path := newCatalogFile(t)
		w := NewPollingWatcher(10*time.Millisecond, 0, logging.NewNop())

		events, err := w.Watch(context.Background(), path)
		require.NoError(t, err)
		require.NoError(t, w.Stop())

		_, ok := <-events
		assert.False(t, ok)
		assert.NoError(t, w.Stop(), "stop is idempotent")
	})

	t.Run("watch after stop", func(t *testing.T) {
		w := NewPollingWatcher(10*time.Millisecond, 0, logging.NewNop())
		require.NoError(t, w.Stop())

		_, err := w.Watch(context.Background(), newCatalogFile(t))
		assert.ErrorIs(t, err, ErrAlreadyWatching)
	})

	t.Run("context cancellation ends polling", func(t *testing.T) {
		path := newCatalogFile(t)
		w := NewPollingWatcher(10*time.Millisecond, 0, logging.NewNop())
		ctx, cancel := context.WithCancel(context.Background())

		events, err := w.Watch(ctx, path)
		require.NoError(t, err)
		cancel()
		time.Sleep(50 * time.Millisecond)

		writeFile(t, path, "images:\n  - file: science_lab.jpg\n")
		select {
		case event := <-events:
			t.Fatalf("unexpected event after cancel: %+v", event)
		case <-time.After(100 * time.Millisecond):
		}
		require.NoError(t, w.Stop())
	})
}

func TestChangeType_String(t *testing.T) {
	assert.Equal(t, "modified", ports.Modified.String())
	assert.Equal(t, "deleted", ports.Deleted.String())
	assert.Equal(t, "unknown", ports.ChangeType(9).String())
}
