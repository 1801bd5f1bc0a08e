package cache

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/andresuchdata/stockdash/internal/config"
	"github.com/redis/go-redis/v9"
)

// Dashboard keyspace: dashboard:<COUNTRY>:<sha1>.
const (
	dashboardKeyPrefix = "dashboard"
	dashboardTTL       = 5 * time.Minute
	scanBatchSize      = 100
	dialTimeout        = 5 * time.Second
)

// dialRedis connects to the dashboard cache and fails fast when the server is
// unreachable, so a misconfigured cache is reported at startup.
func dialRedis(cfg config.CacheConfig) (*redis.Client, time.Duration, error) {
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, 0, err
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, 0, fmt.Errorf("dashboard cache unreachable at %s: %w", opts.Addr, err)
	}

	return client, cacheTTL(cfg.DashboardTTLSeconds), nil
}

func cacheTTL(seconds int) time.Duration {
	if seconds <= 0 {
		return dashboardTTL
	}
	return time.Duration(seconds) * time.Second
}

// redisOptions prefers REDIS_URL and falls back to host/port on localhost.
func redisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if url := strings.TrimSpace(cfg.RedisURL); url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opts, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = "127.0.0.1"
	}
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

func countryPrefix(country string) string {
	return fmt.Sprintf("%s:%s:", dashboardKeyPrefix, normalizeCountry(country))
}

func normalizeCountry(country string) string {
	return strings.ToUpper(strings.TrimSpace(country))
}

// dashboardPattern matches the cached dashboards of one country, or of every
// country when country is blank.
func dashboardPattern(country string) string {
	if normalizeCountry(country) == "" {
		return dashboardKeyPrefix + ":*"
	}
	return countryPrefix(country) + "*"
}

// purgeDashboards unlinks every cached dashboard matching pattern and returns
// how many keys went away. UNLINK frees the payloads off the main thread.
func purgeDashboards(ctx context.Context, client *redis.Client, pattern string) (int64, error) {
	var removed int64
	iter := client.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	batch := make([]string, 0, scanBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := client.Unlink(ctx, batch...).Result()
		if err != nil {
			return fmt.Errorf("redis unlink failed: %w", err)
		}
		removed += n
		batch = batch[:0]
		return nil
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatchSize {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("redis scan failed: %w", err)
	}
	return removed, flush()
}
