// internal/services/search_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/models"
)

const (
	minSearchRunes = 2
	searchLimit    = 10

	SearchTypeProduct   = "product"
	SearchTypeAccessory = "accessory"
)

type SearchService struct {
	db *gorm.DB
}

type SearchHit struct {
	Type     string  `json:"type"`
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image,omitempty"`
}

type SearchResult struct {
	Query       string             `json:"query"`
	Products    []models.Product   `json:"products"`
	Accessories []models.Accessory `json:"accessories"`
	Results     []SearchHit        `json:"results"`
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// Search matches name or description case-insensitively. Queries shorter
// than two characters return empty lists without touching the database.
func (s *SearchService) Search(ctx context.Context, q string) (*SearchResult, error) {
	q = strings.TrimSpace(q)
	result := &SearchResult{
		Query:       q,
		Products:    []models.Product{},
		Accessories: []models.Accessory{},
		Results:     []SearchHit{},
	}
	if utf8.RuneCountInString(q) < minSearchRunes {
		return result, nil
	}

	pattern := likePattern(q)

	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(searchLimit).
		Find(&result.Products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	if err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(searchLimit).
		Find(&result.Accessories).Error; err != nil {
		return nil, fmt.Errorf("failed to search accessories: %w", err)
	}

	for _, p := range result.Products {
		result.Results = append(result.Results, SearchHit{
			Type:     SearchTypeProduct,
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Price:    p.Price,
			Image:    firstImage(p.Images),
		})
	}
	for _, a := range result.Accessories {
		result.Results = append(result.Results, SearchHit{
			Type:     SearchTypeAccessory,
			ID:       a.ID,
			Name:     a.Name,
			Category: a.Category,
			Price:    a.Price,
			Image:    firstImage(a.Images),
		})
	}

	return result, nil
}

// likePattern wraps a lowercased term for a substring LIKE match.
func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

func firstImage(images models.StringList) string {
	if len(images) == 0 {
		return ""
	}
	return images[0]
}
