package entities

import (
	"errors"
	"strings"
)

// UntitledSlide is the title given to a block whose first line is blank.
const UntitledSlide = "Untitled"

// Slide is one generated slide of a deck
type Slide struct {
	// ID is a unique identifier assigned when the deck is persisted
	ID string `json:"id,omitempty"`

	// Order is the 0-based position of the slide within its deck
	Order int `json:"order"`

	// Title is the slide heading
	Title string `json:"title"`

	// Points are the bullet lines of the slide body
	Points []string `json:"points"`

	// Notes are speaker notes, possibly multi-line
	Notes string `json:"notes"`

	// VisualKeywords drive local image selection
	VisualKeywords []string `json:"visual_keywords"`

	// LocalImagePath is relative to the static asset root, nil when no image was attached
	LocalImagePath *string `json:"local_image_path"`
}

// Validate ensures the slide can be stored and rendered
func (s *Slide) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return errors.New("slide title cannot be empty")
	}

	if s.Order < 0 {
		return errors.New("slide order must be non-negative")
	}

	return nil
}

// Content returns the points joined by newlines, the body text an editor shows
func (s *Slide) Content() string {
	return strings.Join(s.Points, "\n")
}

// HasNotes returns true if the slide has speaker notes
func (s *Slide) HasNotes() bool {
	return strings.TrimSpace(s.Notes) != ""
}

// HasImage returns true if an image was attached to the slide
func (s *Slide) HasImage() bool {
	return s.LocalImagePath != nil && *s.LocalImagePath != ""
}

// ImagePath returns the attached image path or an empty string
func (s *Slide) ImagePath() string {
	if s.LocalImagePath == nil {
		return ""
	}
	return *s.LocalImagePath
}

// SetContent replaces the points with the non-blank lines of content
func (s *Slide) SetContent(content string) {
	s.Points = s.Points[:0]
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if line != "" && line != "-" {
			s.Points = append(s.Points, line)
		}
	}
}

// Renumber sets Order to each slide's position in the slice
func Renumber(slides []Slide) {
	for i := range slides {
		slides[i].Order = i
	}
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Float64Ptr returns a pointer to f
func Float64Ptr(f float64) *float64 {
	return &f
}
