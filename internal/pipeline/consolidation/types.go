package consolidation

import (
	"time"

	"github.com/andresuchdata/stockdash/internal/domain"
)

// Input column names of the POS export. Matching is case-sensitive.
const (
	ColumnBrand      = "U_Marca"
	ColumnSilhouette = "U_Silueta"
	ColumnStock      = "Stock_Actual"
	ColumnStore      = "Bodega"
	ColumnLeague     = "U_Liga"
	ColumnSegment    = "U_Segmento"
)

// RequiredColumns lists the columns every export must carry, in report order.
var RequiredColumns = []string{
	ColumnBrand,
	ColumnSilhouette,
	ColumnStock,
	ColumnStore,
	ColumnLeague,
	ColumnSegment,
}

// Raw segment values recognised by the classifier.
const (
	SegmentApparel     = "APPAREL"
	SegmentAccessories = "ACCESSORIES"
)

// StockRecord is one normalized input row.
type StockRecord struct {
	Brand      string
	Store      string // catalog spelling
	LeagueCode string // upper-cased
	Segment    string // upper-cased
	Silhouette string // upper-cased
	Stock      int64
}

// Classified is a record with its derived segment and silhouette family.
type Classified struct {
	StockRecord
	Class  domain.Segment
	Family domain.SilhouetteFamily
}

// IngestStats summarises one read of an export.
type IngestStats struct {
	Country      string        `json:"country"`
	RowsRead     int           `json:"rows_read"`
	RowsSkipped  int           `json:"rows_skipped"`
	RowsRetained int           `json:"rows_retained"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Observer receives ingest statistics; the engine itself never logs.
type Observer func(IngestStats)

// ColumnKind identifies what a table column carries.
type ColumnKind int

const (
	ColumnKindStore ColumnKind = iota
	ColumnKindCategoryFlat
	ColumnKindCategoryCurved
	ColumnKindCategoryApparel
	ColumnKindTotalFlat
	ColumnKindTotalCurved
	ColumnKindTotalHeadwear
	ColumnKindCapacity
	ColumnKindCompliance
	ColumnKindTotalApparel
	ColumnKindTotalAccessories
	ColumnKindTotalGeneral
)

// Column is a (group, leaf) pair of the two-level header.
type Column struct {
	Group    string                `json:"group"`
	Leaf     string                `json:"leaf"`
	Kind     ColumnKind            `json:"kind"`
	Category domain.LeagueCategory `json:"category,omitempty"`
}

// CategoryCells holds the per-category stock of one row.
type CategoryCells struct {
	Flat    int64 `json:"flat"`
	Curved  int64 `json:"curved"`
	Apparel int64 `json:"apparel"`
}

// Compliance is the signed percentage by which headwear stock exceeds capacity.
type Compliance struct {
	Tracked bool             `json:"tracked"`
	Percent float64          `json:"percent"`
	Color   domain.Semaphore `json:"color"`
}

// Row is a store row or the TOTAL pseudo-row.
type Row struct {
	Store   string `json:"store"`
	Total   bool   `json:"total,omitempty"`
	Central bool   `json:"central,omitempty"`

	Categories map[domain.LeagueCategory]CategoryCells `json:"categories"`

	TotalFlat        int64      `json:"total_flat"`
	TotalCurved      int64      `json:"total_curved"`
	TotalHeadwear    int64      `json:"total_headwear"`
	Capacity         int64      `json:"target_capacity"`
	Compliance       Compliance `json:"compliance"`
	TotalApparel     int64      `json:"total_apparel"`
	TotalAccessories int64      `json:"total_accessories"`
	TotalGeneral     int64      `json:"total_general"`
}

// Table is the consolidated stock table of one country.
type Table struct {
	Country     string                `json:"country"`
	CountryName string                `json:"country_name"`
	Filter      domain.CategoryFilter `json:"filter"`
	Columns     []Column              `json:"columns"`
	// Rows holds the store rows followed by the TOTAL row.
	Rows []Row `json:"rows"`
}

// Alert is a store short of its target capacity.
type Alert struct {
	Store        string          `json:"store"`
	Stock        int64           `json:"stock"`
	Capacity     int64           `json:"capacity"`
	Shortfall    int64           `json:"shortfall"`
	ShortfallPct float64         `json:"shortfall_pct"`
	Severity     domain.Severity `json:"severity"`
}

// StoreStock names a store with the stock figure it was ranked by.
type StoreStock struct {
	Store    string `json:"store"`
	Stock    int64  `json:"stock"`
	Capacity int64  `json:"capacity,omitempty"`
}

// PerformanceSummary feeds the metrics strip of the dashboard.
type PerformanceSummary struct {
	Metric      string      `json:"metric"`
	Legend      string      `json:"legend"`
	TopStore    *StoreStock `json:"top_store"`
	BottomStore *StoreStock `json:"bottom_store"`
	MeanStock   float64     `json:"mean_stock"`
	StoreCount  int         `json:"store_count"`
}

// ChartBar is one bar of the stock-versus-capacity chart.
type ChartBar struct {
	Store    string           `json:"store"`
	Stock    int64            `json:"stock"`
	Capacity int64            `json:"capacity"`
	Color    domain.Semaphore `json:"color,omitempty"`
}

// Result bundles the projections of one consolidation run.
type Result struct {
	Country     string             `json:"country"`
	CountryName string             `json:"country_name"`
	Category    string             `json:"category"`
	Table       *Table             `json:"table"`
	Alerts      []Alert            `json:"alerts"`
	Performance PerformanceSummary `json:"performance"`
	Chart       []ChartBar         `json:"chart"`
	Stats       IngestStats        `json:"stats"`
}
