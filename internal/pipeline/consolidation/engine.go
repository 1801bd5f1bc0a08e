package consolidation

import (
	"fmt"
	"io"

	"github.com/andresuchdata/stockdash/internal/catalog"
	"github.com/andresuchdata/stockdash/internal/domain"
)

// Engine turns one country's POS export into the dashboard projections.
// It holds no mutable state and may be shared between goroutines.
type Engine struct {
	catalog    *catalog.Catalog
	houseBrand string
	observer   Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithHouseBrand overrides the brand retained during ingest.
func WithHouseBrand(brand string) Option {
	return func(e *Engine) {
		if brand != "" {
			e.houseBrand = brand
		}
	}
}

// WithObserver installs a callback that receives ingest statistics.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// NewEngine builds an engine over an immutable catalog.
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{catalog: cat, houseBrand: catalog.HouseBrand}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the catalog the engine resolves against.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Consolidate reads the export and returns the consolidated table, the alert
// list, the performance summary and the chart series.
func (e *Engine) Consolidate(r io.Reader, countryTag string, filter domain.CategoryFilter) (*Result, error) {
	country, ok := e.catalog.LookupCountry(countryTag)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCountry, countryTag)
	}

	pivot := NewPivot(e.catalog, country, filter)
	stats, err := Ingest(r, country, IngestOptions{HouseBrand: e.houseBrand, Observer: e.observer}, func(rec StockRecord) {
		if classified, keep := Classify(e.catalog, rec); keep {
			pivot.Add(classified)
		}
	})
	if err != nil {
		return nil, err
	}
	if stats.RowsRetained == 0 {
		return nil, fmt.Errorf("%w: no %s rows for stores of %s", ErrEmptyResult, e.houseBrand, country.Name)
	}

	table := pivot.Table()
	return &Result{
		Country:     country.Code,
		CountryName: country.Name,
		Category:    filter.String(),
		Table:       table,
		Alerts:      Alerts(table, country),
		Performance: Performance(table, country),
		Chart:       Chart(table, country),
		Stats:       stats,
	}, nil
}

// ConsolidateCategory is Consolidate with the filter given as text
// ("", "ALL" or a category name).
func (e *Engine) ConsolidateCategory(r io.Reader, countryTag, category string) (*Result, error) {
	filter, err := domain.ParseCategoryFilter(category)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return e.Consolidate(r, countryTag, filter)
}
