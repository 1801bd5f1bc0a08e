package consolidation

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockdash/internal/catalog"
	"github.com/andresuchdata/stockdash/internal/domain"
)

const testHeader = "U_Marca;U_Silueta;Stock_Actual;Bodega;U_Liga;U_Segmento"

var testLeagues = map[domain.LeagueCategory][]string{
	domain.CategoryMLB:           {"MLB"},
	domain.CategoryNBA:           {"NBA"},
	domain.CategoryNFL:           {"NFL"},
	domain.CategoryMotorsport:    {"F1"},
	domain.CategoryEntertainment: {"NEW ERA BRANDED", "DISNEY"},
}

// testCatalog has one country "TT" with stores Alpha(1000), Beta(500),
// Gamma(500), Delta(untracked) and a central warehouse.
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		[]catalog.CountrySpec{
			{
				Code: "TT",
				Name: "Testland",
				Stores: []catalog.StoreSpec{
					{Name: "Alpha", Capacity: 1000},
					{Name: "Beta", Capacity: 500},
					{Name: "Gamma", Capacity: 500},
					{Name: "Delta"},
					{Name: "Central", Central: true},
				},
			},
			{
				Code: "RR",
				Name: "Rollupland",
				Stores: []catalog.StoreSpec{
					{Name: "North", Capacity: 500},
					{Name: "South", Capacity: 500},
				},
			},
		},
		testLeagues,
		[]string{"950", "5950", "59FIFTY"},
		[]string{"940", "920", "9FORTY"},
	)
	require.NoError(t, err)
	return c
}

func testCountry(t *testing.T, c *catalog.Catalog, code string) *catalog.Country {
	t.Helper()
	country, ok := c.LookupCountry(code)
	require.True(t, ok)
	return country
}

// row builds a house-brand export line.
func row(store, league, segment, silhouette, stock string) string {
	return strings.Join([]string{"NEW ERA", silhouette, stock, store, league, segment}, ";")
}

func export(lines ...string) io.Reader {
	return strings.NewReader(testHeader + "\n" + strings.Join(lines, "\n") + "\n")
}
