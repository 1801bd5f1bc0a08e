package consolidation

import (
	"fmt"
	"sort"

	"github.com/andresuchdata/stockdash/internal/catalog"
	"github.com/andresuchdata/stockdash/internal/domain"
)

// Alerts lists the non-central stores whose headwear stock is below a tracked
// capacity, largest shortfall first. Single-category tables carry no
// compliance and therefore produce no alerts.
func Alerts(t *Table, country *catalog.Country) []Alert {
	alerts := make([]Alert, 0)
	if !t.HasCompliance() {
		return alerts
	}

	for _, r := range visibleRows(t, country) {
		c, h := r.Capacity, r.TotalHeadwear
		if c <= 0 || h >= c {
			continue
		}
		shortfall := c - h
		alerts = append(alerts, Alert{
			Store:        r.Store,
			Stock:        h,
			Capacity:     c,
			Shortfall:    shortfall,
			ShortfallPct: roundTo(float64(shortfall)/float64(c)*100, 2),
			Severity:     severity(shortfall, c),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Shortfall != alerts[j].Shortfall {
			return alerts[i].Shortfall > alerts[j].Shortfall
		}
		return country.StoreOrder(alerts[i].Store) < country.StoreOrder(alerts[j].Store)
	})
	return alerts
}

func severity(shortfall, capacity int64) domain.Severity {
	switch {
	case shortfall*2 >= capacity:
		return domain.SeverityCritical
	case shortfall*4 >= capacity:
		return domain.SeverityModerate
	default:
		return domain.SeverityMild
	}
}

// Performance ranks the non-central stores. Full mode ranks stores with a
// tracked capacity by TOTAL HEADWEAR; single-category mode ranks every store
// by the category's TOTAL GENERAL.
func Performance(t *Table, country *catalog.Country) PerformanceSummary {
	selected, single := t.Filter.Single()

	summary := PerformanceSummary{
		Metric: LabelTotalHeadwear,
		Legend: "Headwear stock of stores with a tracked target capacity",
	}
	metric := func(r Row) int64 { return r.TotalHeadwear }
	if single {
		summary.Metric = LabelTotalGeneral
		summary.Legend = fmt.Sprintf("Total %s stock per store", selected)
		metric = func(r Row) int64 { return r.TotalGeneral }
	}

	var candidates []Row
	for _, r := range visibleRows(t, country) {
		if !single && r.Capacity <= 0 {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return summary
	}

	// rank in catalog order so ties resolve the same way as the table
	sort.SliceStable(candidates, func(i, j int) bool {
		return country.StoreOrder(candidates[i].Store) < country.StoreOrder(candidates[j].Store)
	})

	top, bottom := candidates[0], candidates[0]
	var sum int64
	for _, r := range candidates {
		v := metric(r)
		sum += v
		if v > metric(top) {
			top = r
		}
		if v < metric(bottom) {
			bottom = r
		}
	}

	summary.TopStore = &StoreStock{Store: top.Store, Stock: metric(top), Capacity: top.Capacity}
	summary.BottomStore = &StoreStock{Store: bottom.Store, Stock: metric(bottom), Capacity: bottom.Capacity}
	summary.MeanStock = roundTo(float64(sum)/float64(len(candidates)), 2)
	summary.StoreCount = len(candidates)
	if single {
		summary.TopStore.Capacity = 0
		summary.BottomStore.Capacity = 0
	}
	return summary
}

// Chart returns one bar per non-central store in table order.
func Chart(t *Table, country *catalog.Country) []ChartBar {
	_, single := t.Filter.Single()
	rows := visibleRows(t, country)
	bars := make([]ChartBar, 0, len(rows))
	for _, r := range rows {
		bar := ChartBar{Store: r.Store, Stock: r.TotalHeadwear, Capacity: r.Capacity, Color: r.Compliance.Color}
		if single {
			bar.Stock = r.TotalGeneral
			bar.Capacity = 0
		}
		bars = append(bars, bar)
	}
	return bars
}

// visibleRows drops the TOTAL row and the country's central warehouses.
func visibleRows(t *Table, country *catalog.Country) []Row {
	var rows []Row
	for _, r := range t.StoreRows() {
		if country.IsCentral(r.Store) {
			continue
		}
		rows = append(rows, r)
	}
	return rows
}
