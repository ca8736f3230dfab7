// internal/cache/counters.go
package cache

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pageViewKeyPrefix = "pageviews:"
	pageViewPathsKey  = "pageviews:paths:"
	counterTTL        = 90 * 24 * time.Hour
	dayLayout         = "2006-01-02"
)

// PageViewCounters keeps per-day page-view totals next to the relational
// event log so the dashboard can read them without scanning page_views.
// A nil client turns every method into a no-op.
type PageViewCounters struct {
	rdb *redis.Client
}

func NewPageViewCounters(rdb *redis.Client) *PageViewCounters {
	return &PageViewCounters{rdb: rdb}
}

func (p *PageViewCounters) Enabled() bool {
	return p != nil && p.rdb != nil
}

func dayKey(day time.Time) string {
	return day.UTC().Format(dayLayout)
}

// Incr bumps the day's total and the path's score for that day.
func (p *PageViewCounters) Incr(ctx context.Context, path string, at time.Time) error {
	if !p.Enabled() {
		return nil
	}

	day := dayKey(at)
	pipe := p.rdb.TxPipeline()
	pipe.Incr(ctx, pageViewKeyPrefix+day)
	pipe.Expire(ctx, pageViewKeyPrefix+day, counterTTL)
	pipe.ZIncrBy(ctx, pageViewPathsKey+day, 1, path)
	pipe.Expire(ctx, pageViewPathsKey+day, counterTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// DailyTotals returns the totals for the last n days keyed by YYYY-MM-DD.
func (p *PageViewCounters) DailyTotals(ctx context.Context, now time.Time, days int) (map[string]int64, error) {
	out := make(map[string]int64, days)
	if !p.Enabled() || days <= 0 {
		return out, nil
	}

	keys := make([]string, days)
	for i := 0; i < days; i++ {
		day := dayKey(now.AddDate(0, 0, -i))
		keys[i] = pageViewKeyPrefix + day
		out[day] = 0
	}

	vals, err := p.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return out, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			out[keys[i][len(pageViewKeyPrefix):]] = n
		}
	}
	return out, nil
}

type PathCount struct {
	Path  string
	Views int64
}

// TopPaths sums the per-day path scores over the last n days and returns the
// most viewed paths, highest first.
func (p *PageViewCounters) TopPaths(ctx context.Context, now time.Time, days int, limit int) ([]PathCount, error) {
	if !p.Enabled() || days <= 0 || limit <= 0 {
		return nil, nil
	}

	keys := make([]string, days)
	for i := 0; i < days; i++ {
		keys[i] = pageViewPathsKey + dayKey(now.AddDate(0, 0, -i))
	}

	scored, err := p.rdb.ZUnionWithScores(ctx, redis.ZStore{Keys: keys, Aggregate: "SUM"}).Result()
	if err != nil {
		return nil, err
	}

	out := make([]PathCount, 0, len(scored))
	for _, z := range scored {
		path, ok := z.Member.(string)
		if !ok {
			continue
		}
		out = append(out, PathCount{Path: path, Views: int64(z.Score)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].Path < out[j].Path
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
