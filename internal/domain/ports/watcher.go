package ports

import (
	"context"
	"time"
)

// FileWatcher reports changes to a single file
type FileWatcher interface {
	// Watch starts watching path; the channel closes when the watcher stops
	Watch(ctx context.Context, path string) (<-chan FileChangeEvent, error)
	// Stop stops the watcher
	Stop() error
}

// FileChangeEvent describes one observed change
type FileChangeEvent struct {
	Path      string
	Type      ChangeType
	Timestamp time.Time
}

// ChangeType represents the type of file change
type ChangeType int

const (
	// Modified indicates the file content changed or the file reappeared
	Modified ChangeType = iota
	// Deleted indicates the file is gone
	Deleted
)

// String returns the string representation of ChangeType
func (c ChangeType) String() string {
	switch c {
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}
