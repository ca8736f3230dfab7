// internal/services/analytics_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/cache"
	"github.com/javajoker/kk-storefront/internal/models"
)

const (
	defaultAnalyticsDays = 7
	maxAnalyticsDays     = 90
	analyticsTopN        = 10
)

// PageViewStore is the key-value side of page-view analytics.
type PageViewStore interface {
	Enabled() bool
	Incr(ctx context.Context, path string, at time.Time) error
	DailyTotals(ctx context.Context, now time.Time, days int) (map[string]int64, error)
	TopPaths(ctx context.Context, now time.Time, days int, limit int) ([]cache.PathCount, error)
}

type AnalyticsService struct {
	db       *gorm.DB
	counters PageViewStore
	now      func() time.Time
}

type TrackClickRequest struct {
	ProductID string `json:"product_id" validate:"required,max=36"`
	Source    string `json:"source" validate:"omitempty,max=50"`
}

type PageViewRequest struct {
	Path     string `json:"path" validate:"required,max=500"`
	Referrer string `json:"referrer" validate:"omitempty,max=500"`
}

type ProductClickCount struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Clicks    int64  `json:"clicks"`
}

type PathViewCount struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type AnalyticsSummary struct {
	Days        int                 `json:"days"`
	TotalClicks int64               `json:"total_clicks"`
	TotalViews  int64               `json:"total_views"`
	TopProducts []ProductClickCount `json:"top_products"`
	TopPaths    []PathViewCount     `json:"top_paths"`
	DailyViews  []DailyCount        `json:"daily_views"`
}

func NewAnalyticsService(db *gorm.DB, counters PageViewStore) *AnalyticsService {
	return &AnalyticsService{db: db, counters: counters, now: time.Now}
}

func (s *AnalyticsService) countersEnabled() bool {
	return s.counters != nil && s.counters.Enabled()
}

func (s *AnalyticsService) TrackClick(ctx context.Context, req *TrackClickRequest) error {
	click := &models.ProductClick{ProductID: req.ProductID, Source: req.Source}
	if err := s.db.WithContext(ctx).Create(click).Error; err != nil {
		return fmt.Errorf("failed to track click: %w", err)
	}
	return nil
}

// TrackPageView appends a page view and bumps the day counters. A counter
// failure after a successful insert is reported as ErrCounterFailed.
func (s *AnalyticsService) TrackPageView(ctx context.Context, req *PageViewRequest, userAgent string) error {
	view := &models.PageView{
		Path:      req.Path,
		Referrer:  req.Referrer,
		UserAgent: truncateRunes(userAgent, maxUserAgentLength),
	}
	if err := s.db.WithContext(ctx).Create(view).Error; err != nil {
		return fmt.Errorf("failed to track page view: %w", err)
	}

	if !s.countersEnabled() {
		return nil
	}
	if err := s.counters.Incr(ctx, req.Path, s.now()); err != nil {
		return fmt.Errorf("%w: %v", ErrCounterFailed, err)
	}
	return nil
}

func (s *AnalyticsService) Summary(ctx context.Context, days int) (*AnalyticsSummary, error) {
	if days <= 0 {
		days = defaultAnalyticsDays
	}
	if days > maxAnalyticsDays {
		days = maxAnalyticsDays
	}

	now := s.now()
	since := startOfDay(now).AddDate(0, 0, -(days - 1))
	db := s.db.WithContext(ctx)

	summary := &AnalyticsSummary{
		Days:        days,
		TopProducts: []ProductClickCount{},
		TopPaths:    []PathViewCount{},
	}

	if err := db.Model(&models.ProductClick{}).Where("created_at >= ?", since).
		Count(&summary.TotalClicks).Error; err != nil {
		return nil, fmt.Errorf("failed to count clicks: %w", err)
	}
	if err := db.Model(&models.PageView{}).Where("created_at >= ?", since).
		Count(&summary.TotalViews).Error; err != nil {
		return nil, fmt.Errorf("failed to count page views: %w", err)
	}

	if err := db.Table("product_clicks").
		Select("product_clicks.product_id AS product_id, COALESCE(products.name, '') AS name, COUNT(*) AS clicks").
		Joins("LEFT JOIN products ON products.id = product_clicks.product_id").
		Where("product_clicks.created_at >= ?", since).
		Group("product_clicks.product_id, products.name").
		Order("clicks DESC").
		Limit(analyticsTopN).
		Scan(&summary.TopProducts).Error; err != nil {
		return nil, fmt.Errorf("failed to rank products: %w", err)
	}

	topPaths, err := s.topPaths(ctx, now, since, days)
	if err != nil {
		return nil, err
	}
	summary.TopPaths = topPaths

	daily, err := s.dailyViews(ctx, now, since, days)
	if err != nil {
		return nil, err
	}
	summary.DailyViews = daily

	return summary, nil
}

// topPaths prefers the per-day path scores and falls back to grouping the
// page_views table.
func (s *AnalyticsService) topPaths(ctx context.Context, now, since time.Time, days int) ([]PathViewCount, error) {
	if s.countersEnabled() {
		ranked, err := s.counters.TopPaths(ctx, now, days, analyticsTopN)
		if err == nil && len(ranked) > 0 {
			out := make([]PathViewCount, 0, len(ranked))
			for _, r := range ranked {
				out = append(out, PathViewCount{Path: r.Path, Views: r.Views})
			}
			return out, nil
		}
	}

	out := []PathViewCount{}
	if err := s.db.WithContext(ctx).Model(&models.PageView{}).
		Select("path, COUNT(*) AS views").
		Where("created_at >= ?", since).
		Group("path").
		Order("views DESC").
		Limit(analyticsTopN).
		Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to rank paths: %w", err)
	}
	return out, nil
}

// dailyViews prefers the key-value counters and falls back to grouping the
// page_views table.
func (s *AnalyticsService) dailyViews(ctx context.Context, now, since time.Time, days int) ([]DailyCount, error) {
	totals := make(map[string]int64, days)

	if s.countersEnabled() {
		fromCache, err := s.counters.DailyTotals(ctx, now, days)
		if err == nil {
			totals = fromCache
		}
	}

	if len(totals) == 0 {
		var rows []struct {
			Day   string
			Count int64
		}
		if err := s.db.WithContext(ctx).Model(&models.PageView{}).
			Select("DATE(created_at) AS day, COUNT(*) AS count").
			Where("created_at >= ?", since).
			Group("DATE(created_at)").
			Scan(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to group page views: %w", err)
		}
		for _, row := range rows {
			day := row.Day
			if len(day) > 10 {
				day = day[:10]
			}
			totals[day] += row.Count
		}
	}

	out := make([]DailyCount, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).UTC().Format("2006-01-02")
		out = append(out, DailyCount{Day: day, Count: totals[day]})
	}
	return out, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
