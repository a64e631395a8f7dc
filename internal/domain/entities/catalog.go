package entities

import (
	"errors"
	"fmt"
	"strings"
)

// CatalogEntry is one image available for matching
type CatalogEntry struct {
	// File is the image file name relative to the images directory
	File string `yaml:"file" json:"file"`

	// Keywords describe what the image shows
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// ImageCatalog is the ordered list of images; declaration order breaks score ties
type ImageCatalog struct {
	Entries []CatalogEntry `yaml:"images" json:"images"`
}

// Validate ensures every entry names a file
func (c *ImageCatalog) Validate() error {
	seen := make(map[string]bool, len(c.Entries))
	for i, e := range c.Entries {
		if strings.TrimSpace(e.File) == "" {
			return fmt.Errorf("catalog entry %d: file is required", i)
		}
		if strings.Contains(e.File, "..") {
			return fmt.Errorf("catalog entry %d: file %q must not leave the images directory", i, e.File)
		}
		if seen[e.File] {
			return fmt.Errorf("catalog entry %d: duplicate file %q", i, e.File)
		}
		seen[e.File] = true
	}
	return nil
}

// Len returns the number of entries
func (c *ImageCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entries)
}

// ErrEmptyCatalog is returned by loaders that require at least one image
var ErrEmptyCatalog = errors.New("image catalog is empty")

// DefaultImageCatalog is the built-in catalog shipped with the static assets
func DefaultImageCatalog() *ImageCatalog {
	return &ImageCatalog{Entries: []CatalogEntry{
		{File: "city_night.jpg", Keywords: []string{"city", "night", "lights", "urban", "skyline"}},
		{File: "nature_landscape.jpg", Keywords: []string{"nature", "landscape", "mountain", "forest", "green"}},
		{File: "technology_abstract.jpg", Keywords: []string{"technology", "abstract", "data", "network", "digital"}},
		{File: "business_meeting.jpg", Keywords: []string{"business", "meeting", "team", "office", "collaboration"}},
		{File: "science_lab.jpg", Keywords: []string{"science", "lab", "research", "experiment", "microscope"}},
		{File: "education_books.jpg", Keywords: []string{"education", "books", "learning", "school", "study"}},
	}}
}
