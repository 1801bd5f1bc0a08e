package cache

import (
	"context"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockdash/internal/config"
	"github.com/andresuchdata/stockdash/internal/domain"
	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
)

func TestBuildDashboardKey(t *testing.T) {
	base := DashboardKey{Country: "gt", Filter: domain.AllCategories, Digest: Digest([]byte("a;b"))}

	key := BuildDashboardKey(base)
	assert.True(t, strings.HasPrefix(key, "dashboard:GT:"))
	assert.Len(t, strings.TrimPrefix(key, "dashboard:GT:"), 40)

	same := base
	same.Country = " GT "
	assert.Equal(t, key, BuildDashboardKey(same))

	filtered := base
	filtered.Filter = domain.OnlyCategory(domain.CategoryNBA)
	assert.NotEqual(t, key, BuildDashboardKey(filtered))

	other := base
	other.Digest = Digest([]byte("a;c"))
	assert.NotEqual(t, key, BuildDashboardKey(other))
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := NewDashboardCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	key := DashboardKey{Country: "GT", Filter: domain.AllCategories}
	require.NoError(t, c.Set(ctx, key, &consolidation.Result{Country: "GT"}))

	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.NoError(t, c.InvalidateCountry(ctx, "GT"))
	assert.NoError(t, c.InvalidateAll(ctx))
	assert.NoError(t, c.Close())
}

func TestBuildRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.CacheConfig{RedisPort: "6380", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	opts, err = redisOptions(config.CacheConfig{RedisURL: "redis://:secret@cache:6379/1"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 1, opts.DB)

	_, err = redisOptions(config.CacheConfig{RedisURL: "http://nope"})
	assert.Error(t, err)
}

func TestDashboardPatternCoversBuiltKeys(t *testing.T) {
	key := BuildDashboardKey(DashboardKey{Country: "sv", Filter: domain.AllCategories, Digest: Digest([]byte("x"))})

	assert.Equal(t, "dashboard:SV:*", dashboardPattern(" sv "))
	assert.Equal(t, "dashboard:*", dashboardPattern(""))
	assert.Equal(t, "dashboard:*", dashboardPattern("  "))

	matched, err := path.Match(dashboardPattern("SV"), key)
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = path.Match(dashboardPattern("GT"), key)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestCacheTTLDefaultsWhenUnset(t *testing.T) {
	assert.Equal(t, dashboardTTL, cacheTTL(0))
	assert.Equal(t, dashboardTTL, cacheTTL(-3))
	assert.Equal(t, 90*time.Second, cacheTTL(90))
}
