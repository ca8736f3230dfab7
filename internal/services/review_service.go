// internal/services/review_service.go
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/models"
	"github.com/javajoker/kk-storefront/internal/utils"
)

type ReviewService struct {
	db *gorm.DB
}

type CreateReviewRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Content   string `json:"content" validate:"max=2000"`
	UserName  string `json:"user_name" validate:"omitempty,max=255"`
}

type ModerateReviewRequest struct {
	Status     *models.ReviewStatus `json:"status,omitempty"`
	IsFeatured *bool                `json:"is_featured,omitempty"`
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// ListApproved returns the public reviews of a product, featured first.
func (s *ReviewService) ListApproved(ctx context.Context, productID string) ([]models.Review, error) {
	query := s.db.WithContext(ctx).Where("status = ?", models.ReviewStatusApproved)
	if productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	reviews := []models.Review{}
	if err := query.Order("is_featured DESC, created_at DESC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// CreateReview stores a review as pending; only moderation publishes it.
func (s *ReviewService) CreateReview(ctx context.Context, identity *utils.Identity, req *CreateReviewRequest) (*models.Review, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).Select("id").First(&product, "id = ?", req.ProductID).Error; err != nil {
		return nil, notFoundOr(err)
	}

	userName := req.UserName
	if userName == "" {
		userName = identity.Name
	}

	review := &models.Review{
		ProductID: req.ProductID,
		UserID:    identity.UserID,
		UserName:  userName,
		Rating:    req.Rating,
		Content:   req.Content,
		Status:    models.ReviewStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, status string, params utils.PaginationParams) ([]models.Review, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Review{})
	if status != "" {
		if !models.ReviewStatus(status).Valid() {
			return nil, 0, ErrInvalidStatus
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	reviews := []models.Review{}
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

func (s *ReviewService) ModerateReview(ctx context.Context, id string, req *ModerateReviewRequest) (*models.Review, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	var review models.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if len(updates) == 0 {
		return &review, nil
	}

	if err := s.db.WithContext(ctx).Model(&review).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	if req.Status != nil {
		review.Status = *req.Status
	}
	if req.IsFeatured != nil {
		review.IsFeatured = *req.IsFeatured
	}
	return &review, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
