package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andresuchdata/stockdash/internal/config"
	"github.com/andresuchdata/stockdash/internal/domain"
	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DashboardKey identifies one consolidation: the same export consolidated for
// the same country and filter always yields the same result.
type DashboardKey struct {
	Country string
	Filter  domain.CategoryFilter
	// Digest is the hex SHA-1 of the uploaded export.
	Digest string
}

// DashboardCache stores consolidation results between identical requests.
type DashboardCache interface {
	Get(ctx context.Context, key DashboardKey) (*consolidation.Result, bool, error)
	Set(ctx context.Context, key DashboardKey, result *consolidation.Result) error
	InvalidateCountry(ctx context.Context, country string) error
	InvalidateAll(ctx context.Context) error
	Close() error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// NewDashboardCache returns a redis-backed cache, or a no-op one when caching
// is disabled.
func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := dialRedis(cfg)
	if err != nil {
		return nil, err
	}

	return NewRedisDashboardCache(client, ttl), nil
}

// NewRedisDashboardCache wraps an existing client.
func NewRedisDashboardCache(client *redis.Client, ttl time.Duration) DashboardCache {
	if ttl <= 0 {
		ttl = dashboardTTL
	}
	return &redisDashboardCache{client: client, ttl: ttl}
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) Get(ctx context.Context, key DashboardKey) (*consolidation.Result, bool, error) {
	payload, err := c.client.Get(ctx, BuildDashboardKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result consolidation.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}
	return &result, true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, key DashboardKey, result *consolidation.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, BuildDashboardKey(key), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) InvalidateCountry(ctx context.Context, country string) error {
	return c.purge(ctx, dashboardPattern(country))
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return c.purge(ctx, dashboardPattern(""))
}

func (c *redisDashboardCache) purge(ctx context.Context, pattern string) error {
	removed, err := purgeDashboards(ctx, c.client, pattern)
	if err != nil {
		return err
	}
	log.Debug().Str("pattern", pattern).Int64("removed", removed).Msg("dashboard cache purged")
	return nil
}

func (c *redisDashboardCache) Close() error {
	return c.client.Close()
}

func (n *noopDashboardCache) Get(ctx context.Context, key DashboardKey) (*consolidation.Result, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) Set(ctx context.Context, key DashboardKey, result *consolidation.Result) error {
	return nil
}

func (n *noopDashboardCache) InvalidateCountry(ctx context.Context, country string) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func (n *noopDashboardCache) Close() error {
	return nil
}

// BuildDashboardKey renders dashboard:<COUNTRY>:<sha1>. The country stays in
// clear so a single country can be invalidated with a prefix scan.
func BuildDashboardKey(key DashboardKey) string {
	parts := []string{
		"country=" + normalizeCountry(key.Country),
		"filter=" + key.Filter.String(),
		"digest=" + strings.ToLower(strings.TrimSpace(key.Digest)),
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return countryPrefix(key.Country) + hex.EncodeToString(sum[:])
}

// Digest hashes an export payload for use in a DashboardKey.
func Digest(payload []byte) string {
	sum := sha1.Sum(payload)
	return hex.EncodeToString(sum[:])
}
