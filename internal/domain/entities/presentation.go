package entities

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Presentation is a generated deck together with the text it was generated from
type Presentation struct {
	// ID is a unique identifier for the presentation
	ID string `json:"id"`

	// InputText is the source text the deck was generated from
	InputText string `json:"input_text"`

	// TemplateID names the visual template used when exporting
	TemplateID string `json:"template_id"`

	// CreatedAt is when the deck was generated
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the deck was last edited
	UpdatedAt time.Time `json:"updated_at"`

	// Slides contains all slides ordered by Order
	Slides []Slide `json:"slides"`
}

// Validate ensures the presentation has valid required fields
func (p *Presentation) Validate() error {
	if p.ID == "" {
		return errors.New("presentation id is required")
	}

	for i := range p.Slides {
		if err := p.Slides[i].Validate(); err != nil {
			return fmt.Errorf("slide %d validation failed: %w", i+1, err)
		}
	}

	return nil
}

// SlideCount returns the total number of slides
func (p *Presentation) SlideCount() int {
	return len(p.Slides)
}

// SortSlides orders the slides by their Order field
func (p *Presentation) SortSlides() {
	sort.SliceStable(p.Slides, func(i, j int) bool {
		return p.Slides[i].Order < p.Slides[j].Order
	})
}

// PresentationSummary is the list view of a stored deck
type PresentationSummary struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template_id"`
	CreatedAt  time.Time `json:"created_at"`
	SlideCount int       `json:"slide_count"`
	FirstTitle string    `json:"first_title,omitempty"`
}

// PresentationUpdate carries an edited deck
type PresentationUpdate struct {
	ID         string  `json:"id"`
	TemplateID string  `json:"template_id"`
	Slides     []Slide `json:"slides"`
}
