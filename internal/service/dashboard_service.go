package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockdash/internal/cache"
	"github.com/andresuchdata/stockdash/internal/catalog"
	"github.com/andresuchdata/stockdash/internal/domain"
	"github.com/andresuchdata/stockdash/internal/exporter"
	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
	"github.com/andresuchdata/stockdash/internal/storage"
)

// ConsolidateRequest is one uploaded POS export for a country.
type ConsolidateRequest struct {
	Country  string
	Category string
	FileName string
	Data     []byte
}

// Export is a rendered workbook together with the result it was built from.
type Export struct {
	FileName   string
	Data       []byte
	Result     *consolidation.Result
	ArchiveKey string
}

// DashboardService runs the consolidation engine behind a result cache and
// archives every upload and export.
type DashboardService struct {
	engine  *consolidation.Engine
	cache   cache.DashboardCache
	archive storage.ObjectStorage
	now     func() time.Time
}

// NewDashboardService wires the engine with optional cache and archive. A nil
// archive disables archiving.
func NewDashboardService(engine *consolidation.Engine, cacheImpl cache.DashboardCache, archive storage.ObjectStorage) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &DashboardService{
		engine:  engine,
		cache:   cacheImpl,
		archive: archive,
		now:     time.Now,
	}
}

// Catalog exposes the reference catalog the engine resolves against.
func (s *DashboardService) Catalog() *catalog.Catalog {
	return s.engine.Catalog()
}

// Consolidate archives the upload and returns its dashboard, from cache when
// the same file was already consolidated with the same country and filter.
func (s *DashboardService) Consolidate(ctx context.Context, req ConsolidateRequest) (*consolidation.Result, error) {
	country, filter, err := s.resolve(req)
	if err != nil {
		return nil, err
	}

	// every upload is archived, including ones answered from cache
	s.store(ctx, storage.UploadKey(country.Code, req.FileName, s.now()), req.Data)

	key := cache.DashboardKey{Country: country.Code, Filter: filter, Digest: cache.Digest(req.Data)}
	if result, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		log.Debug().Str("country", country.Code).Str("category", filter.String()).Msg("dashboard: cache hit")
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get failed")
	}

	result, err := s.engine.Consolidate(bytes.NewReader(req.Data), country.Code, filter)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, result); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set failed")
	}
	return result, nil
}

// Export consolidates the upload and renders it as an XLSX workbook.
func (s *DashboardService) Export(ctx context.Context, req ConsolidateRequest) (*Export, error) {
	result, err := s.Consolidate(ctx, req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := exporter.WriteXLSX(&buf, result); err != nil {
		return nil, fmt.Errorf("render workbook: %w", err)
	}

	out := &Export{
		FileName: ExportFileName(result),
		Data:     buf.Bytes(),
		Result:   result,
	}
	key := storage.ExportKey(result.Country, out.FileName, s.now())
	if s.store(ctx, key, out.Data) {
		out.ArchiveKey = key
	}
	return out, nil
}

// Invalidate drops cached dashboards of a country, or all of them when
// country is empty.
func (s *DashboardService) Invalidate(ctx context.Context, country string) error {
	if strings.TrimSpace(country) == "" {
		return s.cache.InvalidateAll(ctx)
	}
	c, ok := s.engine.Catalog().LookupCountry(country)
	if !ok {
		return fmt.Errorf("%w: %q", consolidation.ErrUnknownCountry, country)
	}
	return s.cache.InvalidateCountry(ctx, c.Code)
}

// ListArchive returns archived objects under prefix.
func (s *DashboardService) ListArchive(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	if s.archive == nil {
		return []storage.ObjectInfo{}, nil
	}
	return s.archive.ListObjects(ctx, prefix)
}

func (s *DashboardService) resolve(req ConsolidateRequest) (*catalog.Country, domain.CategoryFilter, error) {
	country, ok := s.engine.Catalog().LookupCountry(req.Country)
	if !ok {
		return nil, domain.CategoryFilter{}, fmt.Errorf("%w: %q", consolidation.ErrUnknownCountry, req.Country)
	}
	filter, err := domain.ParseCategoryFilter(req.Category)
	if err != nil {
		return nil, domain.CategoryFilter{}, fmt.Errorf("%w: %q", consolidation.ErrUnknownCategory, req.Category)
	}
	return country, filter, nil
}

// store archives data and reports whether it succeeded. Failures are logged.
func (s *DashboardService) store(ctx context.Context, key string, data []byte) bool {
	if s.archive == nil {
		return false
	}
	if err := s.archive.PutObject(ctx, key, data); err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Str("key", key).Msg("dashboard: archive failed")
		}
		return false
	}
	return true
}

// ExportFileName is consolidado_<CODE>[_<CATEGORY>].xlsx.
func ExportFileName(result *consolidation.Result) string {
	name := "consolidado_" + result.Country
	if result.Category != "" && result.Category != "ALL" {
		name += "_" + result.Category
	}
	return name + ".xlsx"
}

// LogIngest is an engine observer that reports ingest statistics.
func LogIngest(stats consolidation.IngestStats) {
	log.Info().
		Str("country", stats.Country).
		Int("rows_read", stats.RowsRead).
		Int("rows_skipped", stats.RowsSkipped).
		Int("rows_retained", stats.RowsRetained).
		Dur("elapsed", stats.Elapsed).
		Msg("ingest completed")
}
