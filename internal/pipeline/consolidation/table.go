package consolidation

import "github.com/andresuchdata/stockdash/internal/domain"

// Cell is one value of a row under a column.
type Cell struct {
	Column     Column
	Text       string
	Number     int64
	Compliance Compliance
}

// Numeric reports whether the cell carries an integer count.
func (c Cell) Numeric() bool {
	return c.Column.Kind != ColumnKindStore && c.Column.Kind != ColumnKindCompliance
}

// Render formats the cell for display: counts with thousands separators,
// compliance as a percentage or N/A.
func (c Cell) Render() string {
	switch c.Column.Kind {
	case ColumnKindStore:
		return c.Text
	case ColumnKindCompliance:
		return c.Compliance.String()
	default:
		return formatCount(c.Number)
	}
}

// Value returns the value of a row under a column.
func (r Row) Value(col Column) Cell {
	cell := Cell{Column: col}
	switch col.Kind {
	case ColumnKindStore:
		cell.Text = r.Store
	case ColumnKindCategoryFlat:
		cell.Number = r.Categories[col.Category].Flat
	case ColumnKindCategoryCurved:
		cell.Number = r.Categories[col.Category].Curved
	case ColumnKindCategoryApparel:
		cell.Number = r.Categories[col.Category].Apparel
	case ColumnKindTotalFlat:
		cell.Number = r.TotalFlat
	case ColumnKindTotalCurved:
		cell.Number = r.TotalCurved
	case ColumnKindTotalHeadwear:
		cell.Number = r.TotalHeadwear
	case ColumnKindCapacity:
		cell.Number = r.Capacity
	case ColumnKindCompliance:
		cell.Compliance = r.Compliance
	case ColumnKindTotalApparel:
		cell.Number = r.TotalApparel
	case ColumnKindTotalAccessories:
		cell.Number = r.TotalAccessories
	case ColumnKindTotalGeneral:
		cell.Number = r.TotalGeneral
	}
	return cell
}

// Cells returns the row's values in schema order.
func (t *Table) Cells(r Row) []Cell {
	cells := make([]Cell, len(t.Columns))
	for i, col := range t.Columns {
		cells[i] = r.Value(col)
	}
	return cells
}

// StoreRows returns the rows without the TOTAL row.
func (t *Table) StoreRows() []Row {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[:len(t.Rows)-1]
}

// TotalRow returns the TOTAL pseudo-row.
func (t *Table) TotalRow() Row {
	if len(t.Rows) == 0 {
		return Row{Store: TotalRowLabel, Total: true}
	}
	return t.Rows[len(t.Rows)-1]
}

// HasCompliance reports whether the schema carries the compliance column.
func (t *Table) HasCompliance() bool {
	_, single := t.Filter.Single()
	return !single
}

// Row looks up a row by store name, including the TOTAL row.
func (t *Table) Row(store string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Store == store {
			return r, true
		}
	}
	return Row{}, false
}

// RenderedTable is the consolidated view: every row formatted for display.
type RenderedTable struct {
	Columns []Column           `json:"columns"`
	Rows    [][]string         `json:"rows"`
	Colors  []domain.Semaphore `json:"colors,omitempty"`
}

// Render formats the consolidated view. No rows are excluded; Colors holds
// the semaphore of each row when compliance is part of the schema.
func (t *Table) Render() RenderedTable {
	out := RenderedTable{
		Columns: t.Columns,
		Rows:    make([][]string, 0, len(t.Rows)),
	}
	for _, r := range t.Rows {
		cells := t.Cells(r)
		line := make([]string, len(cells))
		for i, c := range cells {
			line[i] = c.Render()
		}
		out.Rows = append(out.Rows, line)
		if t.HasCompliance() {
			out.Colors = append(out.Colors, r.Compliance.Color)
		}
	}
	return out
}
