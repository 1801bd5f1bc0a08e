package consolidation

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockdash/internal/catalog"
	"github.com/andresuchdata/stockdash/internal/domain"
)

func consolidate(t *testing.T, country string, lines ...string) *Result {
	t.Helper()
	engine := NewEngine(testCatalog(t))
	res, err := engine.Consolidate(export(lines...), country, domain.AllCategories)
	require.NoError(t, err)
	return res
}

func TestConsolidateUnderTargetStore(t *testing.T) {
	res := consolidate(t, "TT",
		row("Alpha", "MLB", "HEADWEAR", "950", "400"),
		row("Alpha", "MLB", "HEADWEAR", "950", "400"),
		row("Alpha", "MLB", "HEADWEAR", "950", "150"),
	)

	alpha, ok := res.Table.Row("Alpha")
	require.True(t, ok)
	assert.Equal(t, int64(950), alpha.TotalHeadwear)
	assert.Equal(t, "-5.00%", alpha.Compliance.String())
	assert.Equal(t, domain.SemaphoreRed, alpha.Compliance.Color)

	require.Len(t, res.Alerts, 1)
	assert.Equal(t, "Alpha", res.Alerts[0].Store)
	assert.Equal(t, int64(50), res.Alerts[0].Shortfall)
}

func TestConsolidateOverstockedStore(t *testing.T) {
	res := consolidate(t, "TT",
		row("Alpha", "MLB", "HEADWEAR", "950", "700"),
		row("Alpha", "NBA", "HEADWEAR", "940", "500"),
	)

	alpha, _ := res.Table.Row("Alpha")
	assert.Equal(t, "20.00%", alpha.Compliance.String())
	assert.Equal(t, domain.SemaphoreYellow, alpha.Compliance.Color)
	for _, a := range res.Alerts {
		assert.NotEqual(t, "Alpha", a.Store)
	}
}

func TestConsolidateOnTargetStore(t *testing.T) {
	res := consolidate(t, "TT", row("Alpha", "MLB", "HEADWEAR", "950", "1100"))

	alpha, _ := res.Table.Row("Alpha")
	assert.Equal(t, "10.00%", alpha.Compliance.String())
	assert.Equal(t, domain.SemaphoreGreen, alpha.Compliance.Color)
}

func TestConsolidateSilhouetteDominatesSegment(t *testing.T) {
	res := consolidate(t, "TT", row("Alpha", "MLB", "APPAREL", "5950", "30"))

	alpha, _ := res.Table.Row("Alpha")
	assert.Equal(t, CategoryCells{Flat: 30}, alpha.Categories[domain.CategoryMLB])
	assert.Zero(t, alpha.TotalApparel)
	assert.Equal(t, int64(30), alpha.TotalGeneral)
}

func TestConsolidateUntrackedCapacity(t *testing.T) {
	res := consolidate(t, "TT", row("Delta", "MLB", "HEADWEAR", "950", "500"))

	delta, ok := res.Table.Row("Delta")
	require.True(t, ok)
	assert.Equal(t, "N/A", delta.Compliance.String())
	assert.Equal(t, domain.SemaphoreGray, delta.Compliance.Color)
	for _, a := range res.Alerts {
		assert.NotEqual(t, "Delta", a.Store)
	}
}

func TestConsolidateCountryRollup(t *testing.T) {
	res := consolidate(t, "RR",
		row("North", "MLB", "HEADWEAR", "950", "400"),
		row("South", "NFL", "HEADWEAR", "920", "600"),
	)

	total := res.Table.TotalRow()
	assert.Equal(t, int64(1000), total.TotalHeadwear)
	assert.Equal(t, int64(1000), total.Capacity)
	assert.Equal(t, "0.00%", total.Compliance.String())
	assert.Equal(t, domain.SemaphoreGreen, total.Compliance.Color)
	assert.Equal(t, "Rollupland", res.CountryName)
}

func TestConsolidateIsDeterministic(t *testing.T) {
	lines := []string{
		row("Beta", "NBA", "HEADWEAR", "950", "10"),
		row("Gamma", "NBA", "HEADWEAR", "950", "10"),
		row("Alpha", "DISNEY", "ACCESSORIES", "", "3"),
		row("Delta", "F1", "APPAREL", "", "1,250"),
	}
	first := consolidate(t, "TT", lines...)
	second := consolidate(t, "TT", lines...)
	assert.Equal(t, first.Table.Render(), second.Table.Render())
	assert.Equal(t, first.Alerts, second.Alerts)
	assert.Equal(t, first.Performance, second.Performance)
	assert.Equal(t, first.Chart, second.Chart)
}

func TestConsolidateCategoryFilter(t *testing.T) {
	engine := NewEngine(testCatalog(t))
	input := strings.Join([]string{
		testHeader,
		row("Alpha", "MLB", "HEADWEAR", "950", "100"),
		row("Alpha", "NBA", "HEADWEAR", "950", "50"),
		row("Beta", "MLB", "APPAREL", "", "25"),
	}, "\n")

	res, err := engine.ConsolidateCategory(strings.NewReader(input), "tt", "mlb")
	require.NoError(t, err)
	assert.Equal(t, "MLB", res.Category)
	assert.Equal(t, "TT", res.Country)
	assert.False(t, res.Table.HasCompliance())
	assert.Empty(t, res.Alerts)

	alpha, _ := res.Table.Row("Alpha")
	assert.Equal(t, int64(100), alpha.TotalGeneral)
	beta, _ := res.Table.Row("Beta")
	assert.Equal(t, int64(25), beta.TotalApparel)
}

func TestConsolidateErrors(t *testing.T) {
	engine := NewEngine(testCatalog(t))

	_, err := engine.Consolidate(export(row("Alpha", "MLB", "HEADWEAR", "950", "1")), "XX", domain.AllCategories)
	assert.ErrorIs(t, err, ErrUnknownCountry)

	_, err = engine.ConsolidateCategory(export(row("Alpha", "MLB", "HEADWEAR", "950", "1")), "TT", "CRICKET")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = engine.Consolidate(strings.NewReader("Bodega;Stock_Actual\nAlpha;1\n"), "TT", domain.AllCategories)
	assert.ErrorIs(t, err, ErrInputSchema)
	var schemaErr *InputSchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Contains(t, schemaErr.Missing, ColumnBrand)

	_, err = engine.Consolidate(iotest.ErrReader(errors.New("boom")), "TT", domain.AllCategories)
	assert.ErrorIs(t, err, ErrInputParse)
}

func TestConsolidateEmptyResult(t *testing.T) {
	engine := NewEngine(testCatalog(t))

	// other brands and unknown stores are dropped before the pivot
	input := strings.Join([]string{
		testHeader,
		"OTHER;950;100;Alpha;MLB;HEADWEAR",
		row("Nowhere", "MLB", "HEADWEAR", "950", "100"),
	}, "\n")
	_, err := engine.Consolidate(strings.NewReader(input), "TT", domain.AllCategories)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestConsolidateHouseBrandOverride(t *testing.T) {
	engine := NewEngine(testCatalog(t), WithHouseBrand("OTHER"))
	input := strings.Join([]string{
		testHeader,
		"other;950;100;Alpha;MLB;HEADWEAR",
		row("Alpha", "MLB", "HEADWEAR", "950", "999"),
	}, "\n")

	res, err := engine.Consolidate(strings.NewReader(input), "TT", domain.AllCategories)
	require.NoError(t, err)
	alpha, _ := res.Table.Row("Alpha")
	assert.Equal(t, int64(100), alpha.TotalHeadwear)
}

func TestConsolidateObserver(t *testing.T) {
	var seen []IngestStats
	engine := NewEngine(testCatalog(t), WithObserver(func(s IngestStats) { seen = append(seen, s) }))

	res, err := engine.Consolidate(export(
		row("Alpha", "MLB", "HEADWEAR", "950", "1"),
		row("Nowhere", "MLB", "HEADWEAR", "950", "1"),
	), "TT", domain.AllCategories)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	assert.Equal(t, 2, seen[0].RowsRead)
	assert.Equal(t, 1, seen[0].RowsRetained)
	assert.Equal(t, seen[0].RowsRetained, res.Stats.RowsRetained)
}

func TestConsolidateWithShippedCatalog(t *testing.T) {
	engine := NewEngine(catalog.Default())
	input := strings.Join([]string{
		testHeader,
		"NEW ERA;950;120;Multiplaza Escazú;MLB;HEADWEAR",
		"NEW ERA;;40;bodega central new era;NBA;APPAREL",
	}, "\n")

	res, err := engine.Consolidate(strings.NewReader(input), "Costa Rica", domain.AllCategories)
	require.NoError(t, err)
	assert.Equal(t, catalog.CostaRica, res.Country)

	for _, bar := range res.Chart {
		assert.False(t, engine.Catalog().IsCentral(catalog.CostaRica, bar.Store))
	}
	central, ok := res.Table.Row("Bodega Central NEW ERA")
	require.True(t, ok)
	assert.Equal(t, int64(40), central.TotalApparel)
}
