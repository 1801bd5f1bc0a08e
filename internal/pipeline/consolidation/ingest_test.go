package consolidation

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestNormalizesAndFilters(t *testing.T) {
	cat := testCatalog(t)
	country := testCountry(t, cat, "TT")

	in := export(
		"new era ; 950 ;1,200; Alpha ; mlb ; headwear ",
		"NEW ERA;940;3;ALPHA;NBA;APPAREL",
		"ADIDAS;950;50;Alpha;MLB;HEADWEAR",
		"NEW ERA;950;50;Somewhere Else;MLB;HEADWEAR",
	)

	records, stats, err := ReadRecords(in, country, IngestOptions{HouseBrand: "NEW ERA"})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, StockRecord{
		Brand:      "new era",
		Store:      "Alpha",
		LeagueCode: "MLB",
		Segment:    "HEADWEAR",
		Silhouette: "950",
		Stock:      1200,
	}, records[0])
	assert.Equal(t, "Alpha", records[1].Store)

	assert.Equal(t, 4, stats.RowsRead)
	assert.Equal(t, 2, stats.RowsRetained)
	assert.Equal(t, 0, stats.RowsSkipped)
	assert.Equal(t, "TT", stats.Country)
}

func TestIngestMissingColumns(t *testing.T) {
	country := testCountry(t, testCatalog(t), "TT")

	in := strings.NewReader("U_Marca;Stock_Actual;Bodega;U_Segmento\nNEW ERA;1;Alpha;APPAREL\n")
	_, _, err := ReadRecords(in, country, IngestOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputSchema))

	var schemaErr *InputSchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "TT", schemaErr.Country)
	assert.Equal(t, []string{ColumnSilhouette, ColumnLeague}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "U_Silueta")
}

func TestIngestHeaderIsCaseSensitive(t *testing.T) {
	country := testCountry(t, testCatalog(t), "TT")

	in := strings.NewReader(strings.ToLower(testHeader) + "\n")
	_, _, err := ReadRecords(in, country, IngestOptions{})
	var schemaErr *InputSchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Len(t, schemaErr.Missing, len(RequiredColumns))
}

func TestIngestEmptyFile(t *testing.T) {
	country := testCountry(t, testCatalog(t), "TT")

	_, _, err := ReadRecords(strings.NewReader(""), country, IngestOptions{})
	assert.True(t, errors.Is(err, ErrInputSchema))
}

func TestIngestToleratesBOMAndExtraColumns(t *testing.T) {
	country := testCountry(t, testCatalog(t), "TT")

	in := strings.NewReader("\ufeffU_Marca;Extra;U_Silueta;Stock_Actual;Bodega;U_Liga;U_Segmento\n" +
		"NEW ERA;x;950;10;Alpha;MLB;HEADWEAR\n")
	records, _, err := ReadRecords(in, country, IngestOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(10), records[0].Stock)
}

func TestIngestSkipsMalformedLines(t *testing.T) {
	country := testCountry(t, testCatalog(t), "TT")

	in := export(
		row("Alpha", "MLB", "HEADWEAR", "950", "10"),
		"NEW ERA;950;10",
		row("Beta", "NBA", "HEADWEAR", "940", "5"),
	)
	records, stats, err := ReadRecords(in, country, IngestOptions{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, stats.RowsSkipped)
	assert.Equal(t, 3, stats.RowsRead)
}

func TestIngestUnclosedQuoteStaysOnItsLine(t *testing.T) {
	country := testCountry(t, testCatalog(t), "TT")

	in := export(
		row("Alpha", "MLB", "HEADWEAR", "950", "10"),
		`NEW ERA;"950;5;Alpha;MLB;HEADWEAR`,
		row("Beta", "MLB", "HEADWEAR", "950", "20"),
		row("Gamma", "MLB", "HEADWEAR", "950", "30"),
	)
	records, stats, err := ReadRecords(in, country, IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, 4, stats.RowsRead)
	assert.Equal(t, 1, stats.RowsSkipped)
	assert.Equal(t, 3, stats.RowsRetained)
	require.Len(t, records, 3)
	assert.Equal(t, "Beta", records[1].Store)
	assert.Equal(t, int64(20), records[1].Stock)
	assert.Equal(t, "Gamma", records[2].Store)
	assert.Equal(t, int64(30), records[2].Stock)
}

func TestIngestHandlesCRLFAndMissingFinalNewline(t *testing.T) {
	country := testCountry(t, testCatalog(t), "TT")

	in := strings.NewReader(testHeader + "\r\n" +
		row("Alpha", "MLB", "HEADWEAR", "950", "7") + "\r\n\r\n" +
		row("Beta", "NBA", "APPAREL", "", "4"))
	records, stats, err := ReadRecords(in, country, IngestOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "HEADWEAR", records[0].Segment)
	assert.Equal(t, "APPAREL", records[1].Segment)
	assert.Equal(t, int64(4), records[1].Stock)
	assert.Equal(t, 2, stats.RowsRead)
}

func TestIngestStreamFailure(t *testing.T) {
	country := testCountry(t, testCatalog(t), "TT")
	boom := errors.New("disk gone")

	in := io.MultiReader(strings.NewReader(testHeader+"\n"), iotest.ErrReader(boom))
	_, _, err := ReadRecords(in, country, IngestOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInputParse))
	assert.True(t, errors.Is(err, boom))
}

func TestIngestReportsToObserver(t *testing.T) {
	country := testCountry(t, testCatalog(t), "TT")

	var got []IngestStats
	_, _, err := ReadRecords(export(row("Alpha", "MLB", "HEADWEAR", "950", "1")), country, IngestOptions{
		Observer: func(s IngestStats) { got = append(got, s) },
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].RowsRetained)
}

func TestParseStock(t *testing.T) {
	cases := map[string]int64{
		"":          0,
		"12":        12,
		" 1,234 ":   1234,
		"1,234,567": 1234567,
		"12.9":      12,
		"-5":        0,
		"abc":       0,
		"NaN":       0,
		"Inf":       0,
		"1e400":     0,
		"1 000":     1000,
	}
	for raw, want := range cases {
		assert.Equal(t, want, parseStock(raw), "parseStock(%q)", raw)
	}
}
