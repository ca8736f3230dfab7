// internal/services/stats_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/cache"
	"github.com/javajoker/kk-storefront/internal/models"
)

type StatsService struct {
	db       *gorm.DB
	counters *cache.PageViewCounters
}

type DashboardStats struct {
	Products       int64 `json:"products"`
	ActiveProducts int64 `json:"active_products"`
	Series         int64 `json:"series"`
	Accessories    int64 `json:"accessories"`
	Labels         int64 `json:"labels"`
	LabelScans     int64 `json:"label_scans"`
	Codes          int64 `json:"codes"`
	PendingReviews int64 `json:"pending_reviews"`
	Wishlists      int64 `json:"wishlists"`
	ProductClicks  int64 `json:"product_clicks"`
	PageViews      int64 `json:"page_views"`
	PageViewsToday int64 `json:"page_views_today"`
}

func NewStatsService(db *gorm.DB, counters *cache.PageViewCounters) *StatsService {
	return &StatsService{db: db, counters: counters}
}

func (s *StatsService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Products, db.Model(&models.Product{})},
		{&stats.ActiveProducts, db.Model(&models.Product{}).Where("is_active = ?", true)},
		{&stats.Series, db.Model(&models.Series{})},
		{&stats.Accessories, db.Model(&models.Accessory{})},
		{&stats.Labels, db.Model(&models.Label{})},
		{&stats.Codes, db.Model(&models.Code{})},
		{&stats.PendingReviews, db.Model(&models.Review{}).Where("status = ?", models.ReviewStatusPending)},
		{&stats.Wishlists, db.Model(&models.Wishlist{})},
		{&stats.ProductClicks, db.Model(&models.ProductClick{})},
		{&stats.PageViews, db.Model(&models.PageView{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
		}
	}

	if err := db.Model(&models.Label{}).
		Select("COALESCE(SUM(scan_count), 0)").
		Scan(&stats.LabelScans).Error; err != nil {
		return nil, fmt.Errorf("failed to sum label scans: %w", err)
	}

	now := time.Now()
	if s.counters.Enabled() {
		if totals, err := s.counters.DailyTotals(ctx, now, 1); err == nil {
			for _, n := range totals {
				stats.PageViewsToday = n
			}
			return stats, nil
		}
	}
	if err := db.Model(&models.PageView{}).
		Where("created_at >= ?", startOfDay(now)).
		Count(&stats.PageViewsToday).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's page views: %w", err)
	}

	return stats, nil
}
