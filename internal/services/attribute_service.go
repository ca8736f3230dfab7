// internal/services/attribute_service.go
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/models"
)

type AttributeService struct {
	db *gorm.DB
}

type AttributeRequest struct {
	Type      models.AttributeType `json:"type" validate:"required,oneof=model material size category"`
	Value     string               `json:"value" validate:"required,max=100"`
	Label     string               `json:"label" validate:"required,max=255"`
	SortOrder int                  `json:"sort_order"`
}

func NewAttributeService(db *gorm.DB) *AttributeService {
	return &AttributeService{db: db}
}

func (s *AttributeService) ListAttributes(ctx context.Context, attrType string) ([]models.ProductAttribute, error) {
	query := s.db.WithContext(ctx).Model(&models.ProductAttribute{})
	if attrType != "" {
		query = query.Where("type = ?", attrType)
	}

	attributes := []models.ProductAttribute{}
	if err := query.Order("type ASC, sort_order ASC, label ASC").Find(&attributes).Error; err != nil {
		return nil, fmt.Errorf("failed to list attributes: %w", err)
	}
	return attributes, nil
}

// CreateAttribute rejects a (type, value) pair that already exists.
func (s *AttributeService) CreateAttribute(ctx context.Context, req *AttributeRequest) (*models.ProductAttribute, error) {
	if err := s.ensureUnique(ctx, req.Type, req.Value, ""); err != nil {
		return nil, err
	}

	attribute := &models.ProductAttribute{
		Type:      req.Type,
		Value:     req.Value,
		Label:     req.Label,
		SortOrder: req.SortOrder,
	}
	if err := s.db.WithContext(ctx).Create(attribute).Error; err != nil {
		return nil, fmt.Errorf("failed to create attribute: %w", err)
	}
	return attribute, nil
}

func (s *AttributeService) UpdateAttribute(ctx context.Context, id string, req *AttributeRequest) (*models.ProductAttribute, error) {
	var attribute models.ProductAttribute
	if err := s.db.WithContext(ctx).First(&attribute, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	if err := s.ensureUnique(ctx, req.Type, req.Value, id); err != nil {
		return nil, err
	}

	attribute.Type = req.Type
	attribute.Value = req.Value
	attribute.Label = req.Label
	attribute.SortOrder = req.SortOrder
	if err := s.db.WithContext(ctx).Save(&attribute).Error; err != nil {
		return nil, fmt.Errorf("failed to update attribute: %w", err)
	}
	return &attribute, nil
}

func (s *AttributeService) DeleteAttribute(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.ProductAttribute{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete attribute: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AttributeService) ensureUnique(ctx context.Context, attrType models.AttributeType, value, exceptID string) error {
	query := s.db.WithContext(ctx).Model(&models.ProductAttribute{}).
		Where("type = ? AND value = ?", attrType, value)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check attribute: %w", err)
	}
	if count > 0 {
		return ErrAttributeExists
	}
	return nil
}
