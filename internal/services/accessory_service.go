// internal/services/accessory_service.go
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/models"
)

type AccessoryService struct {
	db *gorm.DB
}

type AccessoryRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Category    string   `json:"category" validate:"omitempty,max=100"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Images      []string `json:"images"`
}

func NewAccessoryService(db *gorm.DB) *AccessoryService {
	return &AccessoryService{db: db}
}

func (s *AccessoryService) ListAccessories(ctx context.Context) ([]models.Accessory, error) {
	accessories := []models.Accessory{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&accessories).Error; err != nil {
		return nil, fmt.Errorf("failed to list accessories: %w", err)
	}
	return accessories, nil
}

func (s *AccessoryService) CreateAccessory(ctx context.Context, req *AccessoryRequest) (*models.Accessory, error) {
	accessory := &models.Accessory{}
	req.apply(accessory)
	if err := s.db.WithContext(ctx).Create(accessory).Error; err != nil {
		return nil, fmt.Errorf("failed to create accessory: %w", err)
	}
	return accessory, nil
}

func (s *AccessoryService) UpdateAccessory(ctx context.Context, id string, req *AccessoryRequest) (*models.Accessory, error) {
	var accessory models.Accessory
	if err := s.db.WithContext(ctx).First(&accessory, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}

	req.apply(&accessory)
	if err := s.db.WithContext(ctx).Save(&accessory).Error; err != nil {
		return nil, fmt.Errorf("failed to update accessory: %w", err)
	}
	return &accessory, nil
}

func (s *AccessoryService) DeleteAccessory(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Accessory{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete accessory: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccessoryRequest) apply(a *models.Accessory) {
	a.Name = r.Name
	a.Category = r.Category
	a.Description = r.Description
	a.Price = r.Price
	a.Stock = r.Stock
	a.Images = models.StringList(r.Images)
}
