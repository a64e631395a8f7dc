package builders

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// PresentationBuilder helps build Presentation entities for testing
type PresentationBuilder struct {
	presentation *entities.Presentation
}

// NewPresentationBuilder creates a new presentation builder with sensible defaults
func NewPresentationBuilder() *PresentationBuilder {
	now := time.Now().UTC().Truncate(time.Second)
	return &PresentationBuilder{
		presentation: &entities.Presentation{
			ID:         uuid.NewString(),
			InputText:  "Test input text",
			TemplateID: entities.DefaultTemplateID,
			CreatedAt:  now,
			UpdatedAt:  now,
			Slides:     []entities.Slide{},
		},
	}
}

// WithID sets the presentation ID
func (b *PresentationBuilder) WithID(id string) *PresentationBuilder {
	b.presentation.ID = id
	return b
}

// WithInputText sets the source text
func (b *PresentationBuilder) WithInputText(text string) *PresentationBuilder {
	b.presentation.InputText = text
	return b
}

// WithTemplate sets the template id
func (b *PresentationBuilder) WithTemplate(templateID string) *PresentationBuilder {
	b.presentation.TemplateID = templateID
	return b
}

// WithCreatedAt sets both timestamps
func (b *PresentationBuilder) WithCreatedAt(at time.Time) *PresentationBuilder {
	b.presentation.CreatedAt = at
	b.presentation.UpdatedAt = at
	return b
}

// WithSlides appends slides as given
func (b *PresentationBuilder) WithSlides(slides ...entities.Slide) *PresentationBuilder {
	b.presentation.Slides = append(b.presentation.Slides, slides...)
	return b
}

// WithSlideCount appends count numbered slides
func (b *PresentationBuilder) WithSlideCount(count int) *PresentationBuilder {
	start := len(b.presentation.Slides)
	for i := 0; i < count; i++ {
		n := start + i
		slide := NewSlideBuilder().
			WithOrder(n).
			WithTitle(fmt.Sprintf("Slide %d", n+1)).
			WithPoints(fmt.Sprintf("Point %d.1", n+1), fmt.Sprintf("Point %d.2", n+1)).
			Build()
		b.presentation.Slides = append(b.presentation.Slides, slide)
	}
	return b
}

// Build creates the final Presentation entity
func (b *PresentationBuilder) Build() *entities.Presentation {
	// Deep copy to prevent mutation
	p := *b.presentation
	p.Slides = make([]entities.Slide, len(b.presentation.Slides))
	for i, s := range b.presentation.Slides {
		p.Slides[i] = copySlide(s)
	}
	return &p
}

// SlideBuilder helps build Slide entities for testing
type SlideBuilder struct {
	slide *entities.Slide
}

// NewSlideBuilder creates a new slide builder with sensible defaults
func NewSlideBuilder() *SlideBuilder {
	return &SlideBuilder{
		slide: &entities.Slide{
			ID:             uuid.NewString(),
			Order:          0,
			Title:          "Test Slide",
			Points:         []string{"Test point"},
			Notes:          "",
			VisualKeywords: []string{},
		},
	}
}

// WithID sets the slide ID
func (b *SlideBuilder) WithID(id string) *SlideBuilder {
	b.slide.ID = id
	return b
}

// WithOrder sets the slide position
func (b *SlideBuilder) WithOrder(order int) *SlideBuilder {
	b.slide.Order = order
	return b
}

// WithTitle sets the slide title
func (b *SlideBuilder) WithTitle(title string) *SlideBuilder {
	b.slide.Title = title
	return b
}

// WithPoints replaces the bullet points
func (b *SlideBuilder) WithPoints(points ...string) *SlideBuilder {
	b.slide.Points = append([]string{}, points...)
	return b
}

// WithNotes sets the speaker notes
func (b *SlideBuilder) WithNotes(notes string) *SlideBuilder {
	b.slide.Notes = notes
	return b
}

// WithKeywords replaces the visual keywords
func (b *SlideBuilder) WithKeywords(keywords ...string) *SlideBuilder {
	b.slide.VisualKeywords = append([]string{}, keywords...)
	return b
}

// WithImage attaches an image path
func (b *SlideBuilder) WithImage(path string) *SlideBuilder {
	b.slide.LocalImagePath = entities.StringPtr(path)
	return b
}

// Build creates the final Slide entity
func (b *SlideBuilder) Build() entities.Slide {
	return copySlide(*b.slide)
}

// MinimalPresentation creates a deck with a single slide
func MinimalPresentation() *entities.Presentation {
	return NewPresentationBuilder().
		WithInputText("Minimal").
		WithSlideCount(1).
		Build()
}

// LargePresentation creates a deck with many slides for load tests
func LargePresentation() *entities.Presentation {
	return NewPresentationBuilder().
		WithInputText("Large presentation").
		WithSlideCount(50).
		Build()
}

// ModelReply returns a well-formed model reply with n slides
func ModelReply(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += "\n---\n"
		}
		out += fmt.Sprintf("Slide %d\n- point a\n- point b\nNOTES: say %d\nVISUAL_KEYWORDS: city, night", i+1, i+1)
	}
	return out
}

func copySlide(s entities.Slide) entities.Slide {
	out := s
	out.Points = append([]string{}, s.Points...)
	out.VisualKeywords = append([]string{}, s.VisualKeywords...)
	if s.LocalImagePath != nil {
		out.LocalImagePath = entities.StringPtr(*s.LocalImagePath)
	}
	return out
}
