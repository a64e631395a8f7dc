package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// ErrAlreadyWatching is returned when Watch is called twice on one watcher
var ErrAlreadyWatching = errors.New("watcher already started")

// fileState is the last observed state of the watched file
type fileState struct {
	exists   bool
	size     int64
	modTime  time.Time
	checksum string
}

// PollingWatcher watches one file by polling its size, mtime and checksum.
// A change is reported once the file has been quiet for the debounce period,
// so an editor writing in several steps produces a single event.
type PollingWatcher struct {
	interval time.Duration
	debounce time.Duration
	logger   ports.Logger

	mu       sync.Mutex
	state    fileState
	started  bool
	stopped  bool
	events   chan ports.FileChangeEvent
	stopCh   chan struct{}
	wg       sync.WaitGroup
	hashFile func(path string) (string, error)
}

// NewPollingWatcher creates a watcher polling every interval
func NewPollingWatcher(interval, debounce time.Duration, logger ports.Logger) *PollingWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	if debounce < 0 {
		debounce = 0
	}
	return &PollingWatcher{
		interval: interval,
		debounce: debounce,
		logger:   logger,
		events:   make(chan ports.FileChangeEvent, 4),
		stopCh:   make(chan struct{}),
		hashFile: checksum,
	}
}

// Watch starts polling path in the background
func (w *PollingWatcher) Watch(ctx context.Context, path string) (<-chan ports.FileChangeEvent, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started || w.stopped {
		return nil, ErrAlreadyWatching
	}

	state, err := w.stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("initial scan: %w", err)
	}
	if !state.exists {
		return nil, fmt.Errorf("initial scan: %s does not exist", absPath)
	}
	w.state = state
	w.started = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx, absPath)
	}()

	return w.events, nil
}

// Stop ends polling and closes the event channel
func (w *PollingWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.events)
	return nil
}

func (w *PollingWatcher) pollLoop(ctx context.Context, path string) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var (
		pending     bool
		pendingType ports.ChangeType
		lastChange  time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
		}

		changeType, changed, err := w.check(path)
		if err != nil {
			w.logger.Warn("Watching %s: %v", path, err)
			continue
		}
		if changed {
			pending = true
			pendingType = changeType
			lastChange = time.Now()
		}
		if !pending || time.Since(lastChange) < w.debounce {
			continue
		}

		event := ports.FileChangeEvent{Path: path, Type: pendingType, Timestamp: time.Now()}
		select {
		case w.events <- event:
			pending = false
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		}
	}
}

// check compares the file against the last observed state and records the new one
func (w *PollingWatcher) check(path string) (ports.ChangeType, bool, error) {
	current, err := w.stat(path)
	if err != nil {
		return 0, false, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	previous := w.state

	switch {
	case !current.exists && !previous.exists:
		return 0, false, nil
	case !current.exists:
		w.state = current
		return ports.Deleted, true, nil
	case !previous.exists:
		w.state = current
		return ports.Modified, true, nil
	case current.checksum == previous.checksum:
		w.state = current
		return 0, false, nil
	}

	w.state = current
	return ports.Modified, true, nil
}

// stat reads the file state, hashing only when size or mtime moved
func (w *PollingWatcher) stat(path string) (fileState, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fileState{}, nil
	}
	if err != nil {
		return fileState{}, fmt.Errorf("stat file: %w", err)
	}

	state := fileState{exists: true, size: info.Size(), modTime: info.ModTime()}
	if w.state.exists && w.state.size == state.size && w.state.modTime.Equal(state.modTime) {
		state.checksum = w.state.checksum
		return state, nil
	}

	state.checksum, err = w.hashFile(path)
	if err != nil {
		return fileState{}, fmt.Errorf("calculate checksum: %w", err)
	}
	return state, nil
}

// checksum returns the SHA256 of the file content
func checksum(path string) (string, error) {
	file, err := os.Open(path) // #nosec G304 - path comes from configuration
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Ensure PollingWatcher implements ports.FileWatcher
var _ ports.FileWatcher = (*PollingWatcher)(nil)
