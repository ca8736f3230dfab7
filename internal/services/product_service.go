// internal/services/product_service.go
package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/models"
)

type ProductService struct {
	db *gorm.DB
}

type ProductRequest struct {
	Name          string                `json:"name" validate:"required,max=255"`
	Series        string                `json:"series" validate:"omitempty,max=100"`
	Category      string                `json:"category" validate:"omitempty,max=100"`
	Description   string                `json:"description"`
	Story         string                `json:"story"`
	Price         float64               `json:"price" validate:"gte=0"`
	Stock         int                   `json:"stock" validate:"gte=0"`
	Sizes         []string              `json:"sizes"`
	Fit           string                `json:"fit" validate:"omitempty,max=100"`
	Material      string                `json:"material" validate:"omitempty,max=255"`
	Images        []string              `json:"images"`
	PurchaseLinks []models.PurchaseLink `json:"purchase_links"`
	IsFeatured    bool                  `json:"is_featured"`
	IsActive      *bool                 `json:"is_active,omitempty"`
}

type ProductFilter struct {
	Series          string
	Category        string
	Featured        *bool
	IncludeInactive bool
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Series != "" {
		query = query.Where("series = ?", filter.Series)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}

	products := []models.Product{}
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &product, nil
}

func (s *ProductService) CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	product := &models.Product{IsActive: true}
	req.apply(product)

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// UpdateProduct replaces the editable fields of a product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *ProductRequest) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	req.apply(product)
	if err := s.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRequest) apply(p *models.Product) {
	p.Name = r.Name
	p.Series = r.Series
	p.Category = r.Category
	p.Description = r.Description
	p.Story = r.Story
	p.Price = r.Price
	p.Stock = r.Stock
	p.Sizes = models.SizeList(r.Sizes)
	p.Fit = r.Fit
	p.Material = r.Material
	p.Images = models.StringList(r.Images)
	p.PurchaseLinks = models.PurchaseLinks(r.PurchaseLinks)
	p.IsFeatured = r.IsFeatured
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
}
