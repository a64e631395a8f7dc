package services

import (
	"math/rand/v2"
	"path"
	"strings"
	"sync/atomic"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// catalogIndex is an immutable, pre-lowercased copy of the image catalog
type catalogIndex struct {
	files    []string
	keywords []map[string]struct{}
}

func newCatalogIndex(catalog *entities.ImageCatalog) *catalogIndex {
	idx := &catalogIndex{}
	if catalog == nil {
		return idx
	}
	for _, e := range catalog.Entries {
		set := make(map[string]struct{}, len(e.Keywords))
		for _, kw := range e.Keywords {
			if kw = normalizeKeyword(kw); kw != "" {
				set[kw] = struct{}{}
			}
		}
		idx.files = append(idx.files, e.File)
		idx.keywords = append(idx.keywords, set)
	}
	return idx
}

// ImageMatcher selects a catalog image by keyword overlap.
// The catalog is swapped atomically so Match never blocks on Reload.
type ImageMatcher struct {
	index  atomic.Pointer[catalogIndex]
	prefix string
	pick   func(n int) int
	logger ports.Logger
}

// MatcherOption configures an ImageMatcher
type MatcherOption func(*ImageMatcher)

// WithRandomPick replaces the uniform random source used for fallback picks
func WithRandomPick(pick func(n int) int) MatcherOption {
	return func(m *ImageMatcher) {
		m.pick = pick
	}
}

// WithMatcherLogger sets the logger that receives fallback warnings
func WithMatcherLogger(logger ports.Logger) MatcherOption {
	return func(m *ImageMatcher) {
		m.logger = logger
	}
}

// NewImageMatcher creates a matcher over catalog; paths are returned as prefix/file
func NewImageMatcher(catalog *entities.ImageCatalog, prefix string, opts ...MatcherOption) *ImageMatcher {
	m := &ImageMatcher{
		prefix: strings.Trim(strings.ReplaceAll(prefix, "\\", "/"), "/"),
		pick:   rand.IntN,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.index.Store(newCatalogIndex(catalog))
	return m
}

// Reload swaps in a new catalog
func (m *ImageMatcher) Reload(catalog *entities.ImageCatalog) {
	m.index.Store(newCatalogIndex(catalog))
}

// Size returns the number of catalog entries
func (m *ImageMatcher) Size() int {
	return len(m.index.Load().files)
}

// Match scores every entry by shared keywords and returns the best one.
// Ties go to the first declared entry. With no overlap an entry is picked at random.
func (m *ImageMatcher) Match(keywords []string) ports.MatchResult {
	if len(keywords) == 0 {
		return ports.MatchResult{}
	}

	idx := m.index.Load()
	if len(idx.files) == 0 {
		return ports.MatchResult{}
	}

	wanted := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		if kw = normalizeKeyword(kw); kw != "" {
			wanted[kw] = struct{}{}
		}
	}

	best, bestScore := -1, 0
	for i, set := range idx.keywords {
		score := 0
		for kw := range wanted {
			if _, ok := set[kw]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best >= 0 {
		return ports.MatchResult{Path: m.relPath(idx.files[best]), Score: bestScore}
	}

	choice := m.pick(len(idx.files))
	if m.logger != nil {
		m.logger.Debug("No image matched keywords %v, using random image %s", keywords, idx.files[choice])
	}
	return ports.MatchResult{Path: m.relPath(idx.files[choice]), Fallback: true}
}

func (m *ImageMatcher) relPath(file string) *string {
	file = strings.ReplaceAll(file, "\\", "/")
	if m.prefix == "" {
		return entities.StringPtr(path.Clean(file))
	}
	return entities.StringPtr(path.Join(m.prefix, file))
}

func normalizeKeyword(kw string) string {
	return toLower(strings.TrimSpace(kw))
}

// Ensure ImageMatcher implements ports.ImageMatcher
var _ ports.ImageMatcher = (*ImageMatcher)(nil)
