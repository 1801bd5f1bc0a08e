package consolidation

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stockdash/internal/catalog"
)

const utf8BOM = "\ufeff"

// IngestOptions controls how an export is filtered while it is read.
type IngestOptions struct {
	// HouseBrand is compared case-insensitively against U_Marca.
	HouseBrand string
	Observer   Observer
}

// Ingest streams a semicolon-delimited POS export and hands every retained
// record to sink. Rows are retained when their brand is the house brand and
// their store belongs to the country in the catalog.
func Ingest(r io.Reader, country *catalog.Country, opts IngestOptions, sink func(StockRecord)) (IngestStats, error) {
	start := time.Now()
	stats := IngestStats{Country: country.Code}

	houseBrand := strings.TrimSpace(opts.HouseBrand)
	if houseBrand == "" {
		houseBrand = catalog.HouseBrand
	}

	lines := bufio.NewReaderSize(r, 64*1024)

	var header []string
	for header == nil {
		line, err := nextLine(lines)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return stats, &InputSchemaError{Country: country.Code, Reason: "empty file"}
			}
			return stats, &InputParseError{Country: country.Code, Err: err}
		}
		if line == "" {
			continue
		}
		header, err = splitLine(line)
		if err != nil {
			return stats, &InputSchemaError{Country: country.Code, Reason: "unreadable header: " + err.Error()}
		}
	}

	idx, missing := indexColumns(header)
	if len(missing) > 0 {
		return stats, &InputSchemaError{Country: country.Code, Missing: missing}
	}
	width := 0
	for _, i := range idx {
		if i+1 > width {
			width = i + 1
		}
	}

	for {
		line, err := nextLine(lines)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return stats, &InputParseError{Country: country.Code, Err: err}
		}
		if line == "" {
			continue
		}
		stats.RowsRead++

		record, err := splitLine(line)
		if err != nil {
			stats.RowsSkipped++
			continue
		}
		if len(record) < width {
			stats.RowsSkipped++
			continue
		}

		if !strings.EqualFold(strings.TrimSpace(record[idx[ColumnBrand]]), houseBrand) {
			continue
		}
		store, ok := country.CanonicalStore(record[idx[ColumnStore]])
		if !ok {
			continue
		}

		sink(StockRecord{
			Brand:      strings.TrimSpace(record[idx[ColumnBrand]]),
			Store:      store,
			LeagueCode: strings.ToUpper(strings.TrimSpace(record[idx[ColumnLeague]])),
			Segment:    strings.ToUpper(strings.TrimSpace(record[idx[ColumnSegment]])),
			Silhouette: strings.ToUpper(strings.TrimSpace(record[idx[ColumnSilhouette]])),
			Stock:      parseStock(record[idx[ColumnStock]]),
		})
		stats.RowsRetained++
	}

	stats.Elapsed = time.Since(start)
	if opts.Observer != nil {
		opts.Observer(stats)
	}
	return stats, nil
}

// ReadRecords is Ingest collecting the retained records into a slice.
func ReadRecords(r io.Reader, country *catalog.Country, opts IngestOptions) ([]StockRecord, IngestStats, error) {
	var records []StockRecord
	stats, err := Ingest(r, country, opts, func(rec StockRecord) {
		records = append(records, rec)
	})
	return records, stats, err
}

// nextLine returns the next physical line without its terminator. A final
// line without a newline is returned before io.EOF.
func nextLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// splitLine parses one physical line on its own so an unbalanced quote can
// never swallow the lines after it.
func splitLine(line string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.Read()
}

// indexColumns maps each required column to its position in the header.
func indexColumns(header []string) (map[string]int, []string) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if i == 0 {
			name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		}
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	idx := make(map[string]int, len(RequiredColumns))
	var missing []string
	for _, col := range RequiredColumns {
		i, ok := positions[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[col] = i
	}
	return idx, missing
}

var stockSanitizer = strings.NewReplacer(",", "", " ", "", "\u00a0", "", "'", "")

// parseStock coerces a raw Stock_Actual value to a non-negative count.
// Thousands separators are dropped; non-numeric, non-finite and negative
// values become 0 and fractions are truncated.
func parseStock(raw string) int64 {
	v := stockSanitizer.Replace(strings.TrimSpace(raw))
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}
