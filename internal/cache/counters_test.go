package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/kk-storefront/internal/config"
)

func TestNewRedisClientWithoutURL(t *testing.T) {
	assert.Nil(t, NewRedisClient(config.RedisConfig{}))
}

func TestCountersDisabledWithoutClient(t *testing.T) {
	counters := NewPageViewCounters(nil)
	assert.False(t, counters.Enabled())

	ctx := context.Background()
	require.NoError(t, counters.Incr(ctx, "/", time.Now()))

	totals, err := counters.DailyTotals(ctx, time.Now(), 7)
	require.NoError(t, err)
	assert.Empty(t, totals)

	top, err := counters.TopPaths(ctx, time.Now(), 7, 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}
