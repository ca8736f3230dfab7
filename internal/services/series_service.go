// internal/services/series_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/models"
)

type SeriesService struct {
	db *gorm.DB
}

type SeriesRequest struct {
	Slug         string `json:"slug" validate:"required,slug"`
	Name         string `json:"name" validate:"required,max=255"`
	Description  string `json:"description"`
	ThemePrimary string `json:"theme_primary" validate:"omitempty,hexcolor"`
	ThemeAccent  string `json:"theme_accent" validate:"omitempty,hexcolor"`
	CoverImage   string `json:"cover_image" validate:"omitempty,max=500"`
}

func NewSeriesService(db *gorm.DB) *SeriesService {
	return &SeriesService{db: db}
}

func (s *SeriesService) ListSeries(ctx context.Context) ([]models.Series, error) {
	series := []models.Series{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&series).Error; err != nil {
		return nil, fmt.Errorf("failed to list series: %w", err)
	}
	return series, nil
}

func (s *SeriesService) GetSeriesBySlug(ctx context.Context, slug string) (*models.Series, error) {
	var series models.Series
	if err := s.db.WithContext(ctx).First(&series, "slug = ?", slug).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &series, nil
}

func (s *SeriesService) CreateSeries(ctx context.Context, req *SeriesRequest) (*models.Series, error) {
	if err := ensureSlugFree(s.db.WithContext(ctx), req.Slug, ""); err != nil {
		return nil, err
	}

	series := &models.Series{}
	req.apply(series)
	if err := s.db.WithContext(ctx).Create(series).Error; err != nil {
		return nil, fmt.Errorf("failed to create series: %w", err)
	}
	return series, nil
}

// UpdateSeries edits a series. Renaming the slug moves every product that
// pointed at the old slug in the same transaction.
func (s *SeriesService) UpdateSeries(ctx context.Context, id string, req *SeriesRequest) (*models.Series, error) {
	var series models.Series
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&series, "id = ?", id).Error; err != nil {
			return notFoundOr(err)
		}

		oldSlug := series.Slug
		if req.Slug != oldSlug {
			if err := ensureSlugFree(tx, req.Slug, id); err != nil {
				return err
			}
			if err := tx.Model(&models.Product{}).Where("series = ?", oldSlug).
				Update("series", req.Slug).Error; err != nil {
				return err
			}
		}

		req.apply(&series)
		return tx.Save(&series).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSlugTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update series: %w", err)
	}
	return &series, nil
}

// DeleteSeries refuses while any product still references the slug.
func (s *SeriesService) DeleteSeries(ctx context.Context, id string) error {
	var series models.Series
	if err := s.db.WithContext(ctx).First(&series, "id = ?", id).Error; err != nil {
		return notFoundOr(err)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("series = ?", series.Slug).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count series products: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d products", ErrSeriesInUse, count)
	}

	if err := s.db.WithContext(ctx).Delete(&series).Error; err != nil {
		return fmt.Errorf("failed to delete series: %w", err)
	}
	return nil
}

func ensureSlugFree(db *gorm.DB, slug, exceptID string) error {
	query := db.Model(&models.Series{}).Where("slug = ?", slug)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

func (r *SeriesRequest) apply(s *models.Series) {
	s.Slug = r.Slug
	s.Name = r.Name
	s.Description = r.Description
	s.ThemePrimary = r.ThemePrimary
	s.ThemeAccent = r.ThemeAccent
	s.CoverImage = r.CoverImage
}
