package exporter

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/stockdash/internal/domain"
	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
)

// AlertsSheet names the second sheet of the workbook.
const AlertsSheet = "Alertas"

// SemaphoreFill maps each semaphore to the fill of its compliance cell.
var SemaphoreFill = map[domain.Semaphore]string{
	domain.SemaphoreRed:    "#F8696B",
	domain.SemaphoreGreen:  "#63BE7B",
	domain.SemaphoreYellow: "#FFEB84",
	domain.SemaphoreGray:   "#D9D9D9",
}

const (
	headerRows    = 2
	minColWidth   = 8.0
	maxColWidth   = 40.0
	countNumFmt   = 3 // #,##0
	percentNumFmt = 10
)

// SheetName returns the name of the consolidated sheet of a result.
func SheetName(res *consolidation.Result) string {
	name := "Consolidado " + res.CountryName
	if utf8.RuneCountInString(name) > 31 {
		name = "Consolidado " + res.Country
	}
	return name
}

// Workbook lays out a consolidation result as a two-sheet workbook.
func Workbook(res *consolidation.Result) (*excelize.File, error) {
	if res == nil || res.Table == nil {
		return nil, fmt.Errorf("workbook: empty result")
	}

	f := excelize.NewFile()
	sheet := SheetName(res)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	next, err := writeTable(f, sheet, res.Table, st)
	if err != nil {
		f.Close()
		return nil, err
	}
	if res.Table.HasCompliance() {
		if err := writeLegend(f, sheet, next+1, st); err != nil {
			f.Close()
			return nil, err
		}
	}

	if _, err := f.NewSheet(AlertsSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeAlerts(f, res, st); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteXLSX renders the workbook of res to w.
func WriteXLSX(w io.Writer, res *consolidation.Result) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type styles struct {
	header     int
	count      int
	totalText  int
	totalCount int
	semaphore  map[domain.Semaphore]int
	totalSema  map[domain.Semaphore]int
	percent    int
}

func newStyles(f *excelize.File) (*styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "#BFBFBF", Style: 1},
		{Type: "right", Color: "#BFBFBF", Style: 1},
		{Type: "top", Color: "#BFBFBF", Style: 1},
		{Type: "bottom", Color: "#BFBFBF", Style: 1},
	}
	numFmt := countNumFmt
	pctFmt := percentNumFmt

	var st styles
	var err error
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    border,
	}); err != nil {
		return nil, err
	}
	if st.count, err = f.NewStyle(&excelize.Style{NumFmt: numFmt, Border: border}); err != nil {
		return nil, err
	}
	if st.totalText, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, Border: border}); err != nil {
		return nil, err
	}
	if st.totalCount, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: numFmt, Border: border}); err != nil {
		return nil, err
	}
	if st.percent, err = f.NewStyle(&excelize.Style{NumFmt: pctFmt, Border: border}); err != nil {
		return nil, err
	}

	st.semaphore = make(map[domain.Semaphore]int, len(SemaphoreFill))
	st.totalSema = make(map[domain.Semaphore]int, len(SemaphoreFill))
	for sem, color := range SemaphoreFill {
		fill := excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
		align := &excelize.Alignment{Horizontal: "right"}
		if st.semaphore[sem], err = f.NewStyle(&excelize.Style{Fill: fill, Alignment: align, Border: border}); err != nil {
			return nil, err
		}
		if st.totalSema[sem], err = f.NewStyle(&excelize.Style{Fill: fill, Alignment: align, Border: border, Font: &excelize.Font{Bold: true}}); err != nil {
			return nil, err
		}
	}
	return &st, nil
}

// writeTable writes the two-level header and every row, and returns the
// first free row below the table.
// cellValue keeps counts numeric in the sheet so they stay summable; store
// names and compliance percentages are written as text.
func cellValue(cell consolidation.Cell, rendered string, total bool, st *styles) (any, int) {
	if cell.Numeric() {
		if total {
			return cell.Number, st.totalCount
		}
		return cell.Number, st.count
	}
	if cell.Column.Kind == consolidation.ColumnKindCompliance {
		if total {
			return rendered, st.totalSema[cell.Compliance.Color]
		}
		return rendered, st.semaphore[cell.Compliance.Color]
	}
	if total {
		return cell.Text, st.totalText
	}
	return cell.Text, 0
}

func writeTable(f *excelize.File, sheet string, t *consolidation.Table, st *styles) (int, error) {
	widths := make([]int, len(t.Columns))

	for i := 0; i < len(t.Columns); {
		col := t.Columns[i]
		if col.Group == "" {
			if err := setValue(f, sheet, i+1, 1, col.Leaf); err != nil {
				return 0, err
			}
			if err := merge(f, sheet, i+1, 1, i+1, headerRows); err != nil {
				return 0, err
			}
			widths[i] = max(widths[i], utf8.RuneCountInString(col.Leaf))
			i++
			continue
		}

		end := i
		for end+1 < len(t.Columns) && t.Columns[end+1].Group == col.Group {
			end++
		}
		if err := setValue(f, sheet, i+1, 1, col.Group); err != nil {
			return 0, err
		}
		if end > i {
			if err := merge(f, sheet, i+1, 1, end+1, 1); err != nil {
				return 0, err
			}
		}
		for j := i; j <= end; j++ {
			if err := setValue(f, sheet, j+1, 2, t.Columns[j].Leaf); err != nil {
				return 0, err
			}
			widths[j] = max(widths[j], utf8.RuneCountInString(t.Columns[j].Leaf))
		}
		i = end + 1
	}
	if err := styleRange(f, sheet, 1, 1, len(t.Columns), headerRows, st.header); err != nil {
		return 0, err
	}

	rowIdx := headerRows + 1
	for _, r := range t.Rows {
		for i, cell := range t.Cells(r) {
			rendered := cell.Render()
			widths[i] = max(widths[i], utf8.RuneCountInString(rendered))

			value, style := cellValue(cell, rendered, r.Total, st)
			if err := setValue(f, sheet, i+1, rowIdx, value); err != nil {
				return 0, err
			}
			if style != 0 {
				if err := styleRange(f, sheet, i+1, rowIdx, i+1, rowIdx, style); err != nil {
					return 0, err
				}
			}
		}
		rowIdx++
	}

	for i, w := range widths {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return 0, err
		}
		if err := f.SetColWidth(sheet, name, name, columnWidth(w)); err != nil {
			return 0, err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, XSplit: 1, YSplit: headerRows,
		TopLeftCell: "B3", ActivePane: "bottomRight",
	}); err != nil {
		return 0, err
	}
	return rowIdx, nil
}

func writeLegend(f *excelize.File, sheet string, row int, st *styles) error {
	if err := setValue(f, sheet, 1, row, "Leyenda"); err != nil {
		return err
	}
	if err := styleRange(f, sheet, 1, row, 1, row, st.totalText); err != nil {
		return err
	}
	for i, sem := range domain.Semaphores() {
		r := row + 1 + i
		if err := setValue(f, sheet, 1, r, string(sem)); err != nil {
			return err
		}
		if err := styleRange(f, sheet, 1, r, 1, r, st.semaphore[sem]); err != nil {
			return err
		}
		if err := setValue(f, sheet, 2, r, domain.SemaphoreLegend(sem)); err != nil {
			return err
		}
	}
	return nil
}

var alertHeaders = []string{"Store", "Stock", "Capacity", "Shortfall", "Shortfall %", "Severity"}

func writeAlerts(f *excelize.File, res *consolidation.Result, st *styles) error {
	for i, h := range alertHeaders {
		if err := setValue(f, AlertsSheet, i+1, 1, h); err != nil {
			return err
		}
	}
	if err := styleRange(f, AlertsSheet, 1, 1, len(alertHeaders), 1, st.header); err != nil {
		return err
	}

	row := 2
	for _, a := range res.Alerts {
		values := []any{a.Store, a.Stock, a.Capacity, a.Shortfall, a.ShortfallPct / 100, string(a.Severity)}
		for i, v := range values {
			if err := setValue(f, AlertsSheet, i+1, row, v); err != nil {
				return err
			}
		}
		if err := styleRange(f, AlertsSheet, 2, row, 4, row, st.count); err != nil {
			return err
		}
		if err := styleRange(f, AlertsSheet, 5, row, 5, row, st.percent); err != nil {
			return err
		}
		row++
	}

	// performance strip under the alert list
	row++
	perf := res.Performance
	summary := [][]any{
		{"Metric", perf.Metric},
		{"Stores ranked", perf.StoreCount},
		{"Mean stock", perf.MeanStock},
	}
	if perf.TopStore != nil {
		summary = append(summary, []any{"Top store", perf.TopStore.Store, perf.TopStore.Stock})
	}
	if perf.BottomStore != nil {
		summary = append(summary, []any{"Bottom store", perf.BottomStore.Store, perf.BottomStore.Stock})
	}
	for _, line := range summary {
		for i, v := range line {
			if err := setValue(f, AlertsSheet, i+1, row, v); err != nil {
				return err
			}
		}
		if err := styleRange(f, AlertsSheet, 1, row, 1, row, st.totalText); err != nil {
			return err
		}
		row++
	}

	if err := f.SetColWidth(AlertsSheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SetColWidth(AlertsSheet, "B", "F", 14)
}

func setValue(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, value)
}

func merge(f *excelize.File, sheet string, col1, row1, col2, row2 int) error {
	from, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		return err
	}
	return f.MergeCell(sheet, from, to)
}

func styleRange(f *excelize.File, sheet string, col1, row1, col2, row2, style int) error {
	from, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func columnWidth(runes int) float64 {
	w := float64(runes) + 2
	if w < minColWidth {
		return minColWidth
	}
	if w > maxColWidth {
		return maxColWidth
	}
	return w
}
