// internal/services/code_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/models"
	"github.com/javajoker/kk-storefront/internal/utils"
)

const maxCodeBatch = 100

type CodeService struct {
	db *gorm.DB
}

type CreateCodesRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Count     int    `json:"count" validate:"required,min=1,max=100"`
}

type CodeVerification struct {
	Code    *models.Code    `json:"code"`
	Product *models.Product `json:"product"`
}

func NewCodeService(db *gorm.DB) *CodeService {
	return &CodeService{db: db}
}

func (s *CodeService) ListCodes(ctx context.Context, productID string, params utils.PaginationParams) ([]models.Code, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Code{})
	if productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count codes: %w", err)
	}

	codes := []models.Code{}
	if err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&codes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list codes: %w", err)
	}
	return codes, total, nil
}

// CreateCodes generates a batch of codes for a product in a single insert.
func (s *CodeService) CreateCodes(ctx context.Context, req *CreateCodesRequest) ([]models.Code, error) {
	if req.Count < 1 || req.Count > maxCodeBatch {
		return nil, fmt.Errorf("count must be between 1 and %d", maxCodeBatch)
	}

	var product models.Product
	if err := s.db.WithContext(ctx).Select("id").First(&product, "id = ?", req.ProductID).Error; err != nil {
		return nil, notFoundOr(err)
	}

	seen := make(map[string]struct{}, req.Count)
	codes := make([]models.Code, 0, req.Count)
	for len(codes) < req.Count {
		code, err := utils.GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate code: %w", err)
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, models.Code{
			Code:      code,
			ProductID: req.ProductID,
			Status:    models.CodeStatusActive,
		})
	}

	if err := s.db.WithContext(ctx).Create(&codes).Error; err != nil {
		return nil, fmt.Errorf("failed to create codes: %w", err)
	}
	return codes, nil
}

func (s *CodeService) DeleteCode(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Code{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// VerifyCode looks a code up and counts the lookup. Product is nil when the
// product has since been deleted.
func (s *CodeService) VerifyCode(ctx context.Context, value string) (*CodeVerification, error) {
	var code models.Code
	if err := s.db.WithContext(ctx).First(&code, "code = ?", value).Error; err != nil {
		return nil, notFoundOr(err)
	}

	if err := s.db.WithContext(ctx).Model(&models.Code{}).Where("id = ?", code.ID).
		UpdateColumn("scan_count", gorm.Expr("scan_count + ?", 1)).Error; err != nil {
		return nil, fmt.Errorf("failed to count code scan: %w", err)
	}
	code.ScanCount++

	result := &CodeVerification{Code: &code}
	if code.ProductID != "" {
		var product models.Product
		err := s.db.WithContext(ctx).First(&product, "id = ?", code.ProductID).Error
		if err == nil {
			result.Product = &product
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load code product: %w", err)
		}
	}
	return result, nil
}
