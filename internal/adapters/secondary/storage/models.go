package storage

import (
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// PresentationRecord is the presentations table row
type PresentationRecord struct {
	ID         string        `gorm:"type:varchar(36);primaryKey"`
	InputText  string        `gorm:"type:text;not null"`
	TemplateID string        `gorm:"type:varchar(64);not null"`
	CreatedAt  time.Time     `gorm:"not null;index"`
	UpdatedAt  time.Time     `gorm:"not null"`
	Slides     []SlideRecord `gorm:"foreignKey:PresentationID;constraint:OnDelete:CASCADE"`
}

func (PresentationRecord) TableName() string { return "presentations" }

// SlideRecord is the slides table row. Content keeps the points as newline-joined text.
type SlideRecord struct {
	ID             string                      `gorm:"type:varchar(36);primaryKey"`
	PresentationID string                      `gorm:"type:varchar(36);not null;index"`
	SlideOrder     int                         `gorm:"column:slide_order;not null"`
	Title          string                      `gorm:"type:text;not null"`
	Content        string                      `gorm:"type:text"`
	Points         datatypes.JSONSlice[string] `gorm:"column:points"`
	Notes          string                      `gorm:"type:text"`
	VisualKeywords datatypes.JSONSlice[string] `gorm:"column:visual_keywords"`
	LocalImagePath *string                     `gorm:"type:text"`
}

func (SlideRecord) TableName() string { return "slides" }

func toPresentationRecord(p *entities.Presentation) *PresentationRecord {
	rec := &PresentationRecord{
		ID:         p.ID,
		InputText:  p.InputText,
		TemplateID: p.TemplateID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		Slides:     toSlideRecords(p.ID, p.Slides),
	}
	return rec
}

func toSlideRecords(presentationID string, slides []entities.Slide) []SlideRecord {
	out := make([]SlideRecord, 0, len(slides))
	for _, s := range slides {
		out = append(out, SlideRecord{
			ID:             s.ID,
			PresentationID: presentationID,
			SlideOrder:     s.Order,
			Title:          s.Title,
			Content:        s.Content(),
			Points:         datatypes.JSONSlice[string](nonNil(s.Points)),
			Notes:          s.Notes,
			VisualKeywords: datatypes.JSONSlice[string](nonNil(s.VisualKeywords)),
			LocalImagePath: s.LocalImagePath,
		})
	}
	return out
}

func (r *PresentationRecord) toEntity() *entities.Presentation {
	p := &entities.Presentation{
		ID:         r.ID,
		InputText:  r.InputText,
		TemplateID: r.TemplateID,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
		Slides:     make([]entities.Slide, 0, len(r.Slides)),
	}
	for _, s := range r.Slides {
		p.Slides = append(p.Slides, s.toEntity())
	}
	p.SortSlides()
	return p
}

func (r *SlideRecord) toEntity() entities.Slide {
	slide := entities.Slide{
		ID:             r.ID,
		Order:          r.SlideOrder,
		Title:          r.Title,
		Points:         nonNil([]string(r.Points)),
		Notes:          r.Notes,
		VisualKeywords: nonNil([]string(r.VisualKeywords)),
		LocalImagePath: r.LocalImagePath,
	}
	// Rows written by other tools may only carry content
	if len(slide.Points) == 0 && strings.TrimSpace(r.Content) != "" {
		slide.SetContent(r.Content)
	}
	return slide
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
