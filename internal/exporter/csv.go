package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
)

// WriteCSV renders the consolidated view as semicolon-separated text, one
// header line of "GROUP LEAF" labels followed by the formatted rows.
func WriteCSV(w io.Writer, res *consolidation.Result) error {
	if res == nil || res.Table == nil {
		return fmt.Errorf("csv: empty result")
	}
	view := res.Table.Render()

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := make([]string, len(view.Columns))
	for i, col := range view.Columns {
		header[i] = HeaderLabel(col)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, line := range view.Rows {
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// HeaderLabel flattens a two-level column header into "GROUP LEAF".
func HeaderLabel(col consolidation.Column) string {
	if col.Group == "" {
		return col.Leaf
	}
	return col.Group + " " + col.Leaf
}
