package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// PresentationRepo stores decks with gorm
type PresentationRepo struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPresentationRepo creates a repository over db
func NewPresentationRepo(db *gorm.DB) *PresentationRepo {
	return &PresentationRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Save inserts a presentation and its slides in one transaction
func (r *PresentationRepo) Save(ctx context.Context, presentation *entities.Presentation) error {
	if err := presentation.Validate(); err != nil {
		return fmt.Errorf("invalid presentation: %w", err)
	}

	rec := toPresentationRecord(presentation)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(rec).Error
	})
}

// Load returns a presentation with slides ordered by position
func (r *PresentationRepo) Load(ctx context.Context, id string) (*entities.Presentation, error) {
	return r.load(r.db.WithContext(ctx), id)
}

func (r *PresentationRepo) load(tx *gorm.DB, id string) (*entities.Presentation, error) {
	var rec PresentationRecord
	err := tx.
		Preload("Slides", func(db *gorm.DB) *gorm.DB {
			return db.Order("slide_order ASC")
		}).
		Where("id = ?", id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrPresentationNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.toEntity(), nil
}

// ReplaceSlides swaps the slide list; an empty templateID keeps the current template
func (r *PresentationRepo) ReplaceSlides(ctx context.Context, id string, templateID string, slides []entities.Slide) (*entities.Presentation, error) {
	var out *entities.Presentation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec PresentationRecord
		if err := tx.Where("id = ?", id).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entities.ErrPresentationNotFound
			}
			return err
		}

		if err := tx.Where("presentation_id = ?", id).Delete(&SlideRecord{}).Error; err != nil {
			return fmt.Errorf("deleting slides: %w", err)
		}

		if records := toSlideRecords(id, slides); len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				return fmt.Errorf("inserting slides: %w", err)
			}
		}

		updates := map[string]interface{}{"updated_at": r.now()}
		if templateID != "" {
			updates["template_id"] = templateID
		}
		if err := tx.Model(&PresentationRecord{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return fmt.Errorf("updating presentation: %w", err)
		}

		loaded, err := r.load(tx, id)
		if err != nil {
			return err
		}
		out = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a presentation and its slides
func (r *PresentationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("presentation_id = ?", id).Delete(&SlideRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&PresentationRecord{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entities.ErrPresentationNotFound
		}
		return nil
	})
}

// List returns summaries of the newest presentations
func (r *PresentationRepo) List(ctx context.Context, limit int) ([]entities.PresentationSummary, error) {
	db := r.db.WithContext(ctx)

	var recs []PresentationRecord
	if err := db.Order("created_at DESC").Limit(limit).Find(&recs).Error; err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return []entities.PresentationSummary{}, nil
	}

	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}

	var counts []struct {
		PresentationID string
		N              int
	}
	if err := db.Model(&SlideRecord{}).
		Select("presentation_id, count(*) as n").
		Where("presentation_id IN ?", ids).
		Group("presentation_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	countByID := make(map[string]int, len(counts))
	for _, c := range counts {
		countByID[c.PresentationID] = c.N
	}

	var firsts []SlideRecord
	if err := db.Select("presentation_id", "title").
		Where("presentation_id IN ? AND slide_order = 0", ids).
		Find(&firsts).Error; err != nil {
		return nil, err
	}
	titleByID := make(map[string]string, len(firsts))
	for _, s := range firsts {
		titleByID[s.PresentationID] = s.Title
	}

	out := make([]entities.PresentationSummary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, entities.PresentationSummary{
			ID:         rec.ID,
			TemplateID: rec.TemplateID,
			CreatedAt:  rec.CreatedAt,
			SlideCount: countByID[rec.ID],
			FirstTitle: titleByID[rec.ID],
		})
	}
	return out, nil
}

// Ensure PresentationRepo implements ports.PresentationRepository
var _ ports.PresentationRepository = (*PresentationRepo)(nil)
