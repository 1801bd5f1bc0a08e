package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockdash/internal/cache"
	"github.com/andresuchdata/stockdash/internal/catalog"
	"github.com/andresuchdata/stockdash/internal/config"
	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
	"github.com/andresuchdata/stockdash/internal/storage"
)

// NewEngine builds the consolidation engine over the shipped catalog with the
// configured house brand and ingest logging.
func NewEngine(cfg *config.Config) *consolidation.Engine {
	return consolidation.NewEngine(catalog.Default(),
		consolidation.WithHouseBrand(cfg.App.HouseBrand),
		consolidation.WithObserver(LogIngest),
	)
}

// NewFromConfig wires the dashboard service with its cache and archive. The
// returned cleanup closes the cache connection.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*DashboardService, func(), error) {
	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("dashboard cache unavailable, continuing without cache")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	archive, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		_ = dashboardCache.Close()
		return nil, nil, fmt.Errorf("init archive storage: %w", err)
	}

	svc := NewDashboardService(NewEngine(cfg), dashboardCache, archive)
	cleanup := func() {
		if err := dashboardCache.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close dashboard cache")
		}
	}
	return svc, cleanup, nil
}
