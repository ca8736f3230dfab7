// internal/services/wishlist_service.go
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/kk-storefront/internal/models"
)

type WishlistService struct {
	db *gorm.DB
}

type WishlistRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

// ListWishlist returns the user's saved products, newest first.
func (s *WishlistService) ListWishlist(ctx context.Context, userID string) ([]models.Wishlist, error) {
	items := []models.Wishlist{}
	if err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}

// AddToWishlist is idempotent: adding a product twice keeps one row.
func (s *WishlistService) AddToWishlist(ctx context.Context, userID, productID string) error {
	var product models.Product
	if err := s.db.WithContext(ctx).Select("id").First(&product, "id = ?", productID).Error; err != nil {
		return notFoundOr(err)
	}

	item := &models.Wishlist{UserID: userID, ProductID: productID}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoNothing: true,
		}).
		Create(item).Error; err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return nil
}

func (s *WishlistService) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Wishlist{}).Error; err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}
