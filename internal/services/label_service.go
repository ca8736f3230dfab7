// internal/services/label_service.go
package services

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/models"
	"github.com/javajoker/kk-storefront/internal/utils"
)

const maxUserAgentLength = 200

type LabelService struct {
	db      *gorm.DB
	hashKey []byte
	now     func() time.Time
}

type CreateLabelRequest struct {
	Code             string                `json:"code" validate:"omitempty,max=64"`
	ProductID        string                `json:"product_id"`
	ProductName      string                `json:"product_name" validate:"omitempty,max=255"`
	Series           string                `json:"series" validate:"omitempty,max=100"`
	Price            *float64              `json:"price,omitempty" validate:"omitempty,gte=0"`
	Description      string                `json:"description"`
	Story            string                `json:"story"`
	Material         string                `json:"material" validate:"omitempty,max=255"`
	Images           []string              `json:"images"`
	CareInstructions []string              `json:"care_instructions"`
	PurchaseLinks    []models.PurchaseLink `json:"purchase_links"`
}

// UpdateLabelRequest is a partial update; nil fields are left untouched.
type UpdateLabelRequest struct {
	IsActive         *bool                  `json:"is_active,omitempty"`
	ProductID        *string                `json:"product_id,omitempty"`
	ProductName      *string                `json:"product_name,omitempty" validate:"omitempty,max=255"`
	Series           *string                `json:"series,omitempty" validate:"omitempty,max=100"`
	Price            *float64               `json:"price,omitempty" validate:"omitempty,gte=0"`
	Description      *string                `json:"description,omitempty"`
	Story            *string                `json:"story,omitempty"`
	Material         *string                `json:"material,omitempty" validate:"omitempty,max=255"`
	Images           *[]string              `json:"images,omitempty"`
	CareInstructions *[]string              `json:"care_instructions,omitempty"`
	PurchaseLinks    *[]models.PurchaseLink `json:"purchase_links,omitempty"`
}

func NewLabelService(db *gorm.DB, hashKey string) *LabelService {
	return &LabelService{
		db:      db,
		hashKey: []byte(hashKey),
		now:     time.Now,
	}
}

// Scan resolves an active label and records the scan. The history row and
// the counter bump are separate statements; the bump is relative so
// concurrent scans are all counted.
func (s *LabelService) Scan(ctx context.Context, code, clientIP, userAgent string) (*models.Label, error) {
	var label models.Label
	if err := s.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", code, true).
		First(&label).Error; err != nil {
		return nil, notFoundOr(err)
	}

	scan := &models.LabelScan{
		LabelID:   label.ID,
		IPHash:    utils.HashIP(clientIP, s.hashKey),
		UserAgent: truncateRunes(userAgent, maxUserAgentLength),
	}
	if err := s.db.WithContext(ctx).Create(scan).Error; err != nil {
		return nil, fmt.Errorf("failed to record label scan: %w", err)
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&models.Label{}).Where("id = ?", label.ID).
		UpdateColumns(map[string]interface{}{
			"scan_count":      gorm.Expr("scan_count + ?", 1),
			"last_scanned_at": now,
		}).Error; err != nil {
		return nil, fmt.Errorf("failed to count label scan: %w", err)
	}

	label.ScanCount++
	label.LastScannedAt = &now
	return &label, nil
}

func (s *LabelService) ListLabels(ctx context.Context, search string, params utils.PaginationParams) ([]models.Label, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Label{})
	if search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(code) LIKE ? OR LOWER(product_name) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count labels: %w", err)
	}

	labels := []models.Label{}
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&labels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list labels: %w", err)
	}
	return labels, total, nil
}

// CreateLabel creates an active label. Without a code one is generated;
// product fields left empty are copied from the linked product.
func (s *LabelService) CreateLabel(ctx context.Context, req *CreateLabelRequest) (*models.Label, error) {
	label := &models.Label{
		Code:             req.Code,
		ProductID:        req.ProductID,
		ProductName:      req.ProductName,
		Series:           req.Series,
		Description:      req.Description,
		Story:            req.Story,
		Material:         req.Material,
		Images:           models.StringList(req.Images),
		CareInstructions: models.StringList(req.CareInstructions),
		PurchaseLinks:    models.PurchaseLinks(req.PurchaseLinks),
		IsActive:         true,
	}
	if req.Price != nil {
		label.Price = *req.Price
	}

	if label.ProductID != "" {
		var product models.Product
		if err := s.db.WithContext(ctx).First(&product, "id = ?", label.ProductID).Error; err != nil {
			return nil, notFoundOr(err)
		}
		fillFromProduct(label, &product, req.Price == nil)
	}

	if label.Code == "" {
		code, err := utils.GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate label code: %w", err)
		}
		label.Code = code
	} else {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Label{}).Where("code = ?", label.Code).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check label code: %w", err)
		}
		if count > 0 {
			return nil, ErrLabelExists
		}
	}

	if err := s.db.WithContext(ctx).Create(label).Error; err != nil {
		return nil, fmt.Errorf("failed to create label: %w", err)
	}
	return label, nil
}

func (s *LabelService) UpdateLabel(ctx context.Context, id string, req *UpdateLabelRequest) (*models.Label, error) {
	var label models.Label
	if err := s.db.WithContext(ctx).First(&label, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}

	updates := map[string]interface{}{}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.ProductID != nil {
		updates["product_id"] = *req.ProductID
	}
	if req.ProductName != nil {
		updates["product_name"] = *req.ProductName
	}
	if req.Series != nil {
		updates["series"] = *req.Series
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Story != nil {
		updates["story"] = *req.Story
	}
	if req.Material != nil {
		updates["material"] = *req.Material
	}
	if req.Images != nil {
		updates["images"] = models.StringList(*req.Images)
	}
	if req.CareInstructions != nil {
		updates["care_instructions"] = models.StringList(*req.CareInstructions)
	}
	if req.PurchaseLinks != nil {
		updates["purchase_links"] = models.PurchaseLinks(*req.PurchaseLinks)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&label).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update label: %w", err)
		}
		if err := s.db.WithContext(ctx).First(&label, "id = ?", id).Error; err != nil {
			return nil, fmt.Errorf("failed to reload label: %w", err)
		}
	}
	return &label, nil
}

// ListScans returns a label's scan history, newest first.
func (s *LabelService) ListScans(ctx context.Context, labelID string, params utils.PaginationParams) ([]models.LabelScan, int64, error) {
	var label models.Label
	if err := s.db.WithContext(ctx).Select("id").First(&label, "id = ?", labelID).Error; err != nil {
		return nil, 0, notFoundOr(err)
	}

	query := s.db.WithContext(ctx).Model(&models.LabelScan{}).Where("label_id = ?", labelID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count label scans: %w", err)
	}

	scans := []models.LabelScan{}
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&scans).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list label scans: %w", err)
	}
	return scans, total, nil
}

func fillFromProduct(label *models.Label, product *models.Product, copyPrice bool) {
	if label.ProductName == "" {
		label.ProductName = product.Name
	}
	if label.Series == "" {
		label.Series = product.Series
	}
	if label.Description == "" {
		label.Description = product.Description
	}
	if label.Story == "" {
		label.Story = product.Story
	}
	if label.Material == "" {
		label.Material = product.Material
	}
	if len(label.Images) == 0 {
		label.Images = product.Images
	}
	if len(label.PurchaseLinks) == 0 {
		label.PurchaseLinks = product.PurchaseLinks
	}
	if copyPrice {
		label.Price = product.Price
	}
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
