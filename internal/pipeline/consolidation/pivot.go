package consolidation

import (
	"sort"

	"github.com/andresuchdata/stockdash/internal/catalog"
	"github.com/andresuchdata/stockdash/internal/domain"
)

// TotalRowLabel keys the TOTAL pseudo-row.
const TotalRowLabel = "TOTAL"

// Column labels of the trailing group.
const (
	LabelStore            = "Store"
	LabelFlat             = "Flat"
	LabelCurved           = "Curved"
	LabelApparel          = "Apparel"
	LabelTotalFlat        = "TOTAL FLAT"
	LabelTotalCurved      = "TOTAL CURVED"
	LabelTotalHeadwear    = "TOTAL HEADWEAR"
	LabelTargetCapacity   = "TARGET CAPACITY"
	LabelCompliance       = "COMPLIANCE %"
	LabelTotalApparel     = "TOTAL APPAREL"
	LabelTotalAccessories = "TOTAL ACCESSORIES"
	LabelTotalGeneral     = "TOTAL GENERAL"
)

// Pivot folds classified records into per-store sums. Records are added one
// at a time so the full input never has to be held in memory.
type Pivot struct {
	catalog *catalog.Catalog
	country *catalog.Country
	filter  domain.CategoryFilter
	rows    []Row // catalog order
}

// NewPivot materialises one zeroed row per catalog store of the country.
func NewPivot(cat *catalog.Catalog, country *catalog.Country, filter domain.CategoryFilter) *Pivot {
	stores := country.Stores()
	rows := make([]Row, len(stores))
	for i, s := range stores {
		rows[i] = Row{
			Store:      s.Name,
			Central:    s.Central,
			Capacity:   s.Capacity,
			Categories: make(map[domain.LeagueCategory]CategoryCells, len(filter.Categories())),
		}
		for _, c := range filter.Categories() {
			rows[i].Categories[c] = CategoryCells{}
		}
	}
	return &Pivot{catalog: cat, country: country, filter: filter, rows: rows}
}

// Add accumulates one classified record. Headwear and apparel rows whose
// league code maps to no category are discarded, as are rows outside the
// filter. Accessories carry no category breakdown and are only restricted
// by league in single-category mode.
func (p *Pivot) Add(rec Classified) {
	i := p.country.StoreOrder(rec.Store)
	if i < 0 {
		return
	}
	row := &p.rows[i]

	category, known := p.catalog.CategoryOf(rec.LeagueCode)

	switch rec.Class {
	case domain.SegmentHeadwear:
		if !known || !p.filter.Includes(category) {
			return
		}
		cells := row.Categories[category]
		switch rec.Family {
		case domain.FamilyFlat:
			cells.Flat += rec.Stock
		case domain.FamilyCurved:
			cells.Curved += rec.Stock
		}
		row.Categories[category] = cells
	case domain.SegmentApparel:
		if !known || !p.filter.Includes(category) {
			return
		}
		cells := row.Categories[category]
		cells.Apparel += rec.Stock
		row.Categories[category] = cells
	case domain.SegmentAccessories:
		if selected, single := p.filter.Single(); single && (!known || category != selected) {
			return
		}
		row.TotalAccessories += rec.Stock
	}
}

// Table computes row totals and compliance, sorts the store rows by TOTAL
// GENERAL (ties keep catalog order) and appends the TOTAL row.
func (p *Pivot) Table() *Table {
	_, single := p.filter.Single()

	rows := make([]Row, len(p.rows))
	for i, r := range p.rows {
		r.Categories = cloneCells(r.Categories)
		r.TotalFlat, r.TotalCurved, r.TotalApparel = 0, 0, 0
		for _, c := range p.filter.Categories() {
			cells := r.Categories[c]
			r.TotalFlat += cells.Flat
			r.TotalCurved += cells.Curved
			r.TotalApparel += cells.Apparel
		}
		r.TotalHeadwear = r.TotalFlat + r.TotalCurved
		r.TotalGeneral = r.TotalHeadwear + r.TotalApparel + r.TotalAccessories
		if !single {
			r.Compliance = Score(r.TotalHeadwear, r.Capacity)
		}
		rows[i] = r
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalGeneral > rows[j].TotalGeneral
	})

	total := Row{
		Store:      TotalRowLabel,
		Total:      true,
		Categories: make(map[domain.LeagueCategory]CategoryCells, len(p.filter.Categories())),
	}
	for _, r := range rows {
		for _, c := range p.filter.Categories() {
			sum := total.Categories[c]
			cells := r.Categories[c]
			sum.Flat += cells.Flat
			sum.Curved += cells.Curved
			sum.Apparel += cells.Apparel
			total.Categories[c] = sum
		}
		total.TotalFlat += r.TotalFlat
		total.TotalCurved += r.TotalCurved
		total.TotalHeadwear += r.TotalHeadwear
		total.Capacity += r.Capacity
		total.TotalApparel += r.TotalApparel
		total.TotalAccessories += r.TotalAccessories
		total.TotalGeneral += r.TotalGeneral
	}
	if !single {
		total.Compliance = Score(total.TotalHeadwear, p.country.TotalCapacity())
	}

	return &Table{
		Country:     p.country.Code,
		CountryName: p.country.Name,
		Filter:      p.filter,
		Columns:     Columns(p.filter),
		Rows:        append(rows, total),
	}
}

// Columns declares the table schema for a filter mode.
func Columns(filter domain.CategoryFilter) []Column {
	cols := []Column{{Group: "", Leaf: LabelStore, Kind: ColumnKindStore}}

	if selected, single := filter.Single(); single {
		group := string(selected)
		return append(cols,
			Column{Group: group, Leaf: LabelTotalFlat, Kind: ColumnKindTotalFlat},
			Column{Group: group, Leaf: LabelTotalCurved, Kind: ColumnKindTotalCurved},
			Column{Group: group, Leaf: LabelTotalHeadwear, Kind: ColumnKindTotalHeadwear},
			Column{Group: group, Leaf: LabelTotalApparel, Kind: ColumnKindTotalApparel},
			Column{Group: group, Leaf: LabelTotalAccessories, Kind: ColumnKindTotalAccessories},
			Column{Group: group, Leaf: LabelTotalGeneral, Kind: ColumnKindTotalGeneral},
		)
	}

	for _, c := range domain.Categories() {
		group := string(c)
		cols = append(cols,
			Column{Group: group, Leaf: LabelFlat, Kind: ColumnKindCategoryFlat, Category: c},
			Column{Group: group, Leaf: LabelCurved, Kind: ColumnKindCategoryCurved, Category: c},
			Column{Group: group, Leaf: LabelApparel, Kind: ColumnKindCategoryApparel, Category: c},
		)
	}
	return append(cols,
		Column{Leaf: LabelTotalFlat, Kind: ColumnKindTotalFlat},
		Column{Leaf: LabelTotalCurved, Kind: ColumnKindTotalCurved},
		Column{Leaf: LabelTotalHeadwear, Kind: ColumnKindTotalHeadwear},
		Column{Leaf: LabelTargetCapacity, Kind: ColumnKindCapacity},
		Column{Leaf: LabelCompliance, Kind: ColumnKindCompliance},
		Column{Leaf: LabelTotalApparel, Kind: ColumnKindTotalApparel},
		Column{Leaf: LabelTotalAccessories, Kind: ColumnKindTotalAccessories},
		Column{Leaf: LabelTotalGeneral, Kind: ColumnKindTotalGeneral},
	)
}

func cloneCells(in map[domain.LeagueCategory]CategoryCells) map[domain.LeagueCategory]CategoryCells {
	out := make(map[domain.LeagueCategory]CategoryCells, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
