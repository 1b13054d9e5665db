// Package table parses tabular result files into an in-memory table with
// per-column type inference. No schema is declared up front; columns come
// from the header row and cell types are discovered from content.
package table

import "strconv"

// Kind discriminates the cell value sum type.
type Kind int

const (
	KindMissing Kind = iota
	KindString
	KindFloat
)

// Cell is one table value: numeric, text or missing.
type Cell struct {
	Kind Kind
	Str  string
	Num  float64
}

func Missing() Cell {
	return Cell{Kind: KindMissing}
}

func String(s string) Cell {
	return Cell{Kind: KindString, Str: s}
}

func Float(f float64) Cell {
	return Cell{Kind: KindFloat, Num: f}
}

// parseCell infers a cell value from raw text. Empty text is missing,
// anything that parses as a float is numeric, the rest stays text.
func parseCell(raw string) Cell {
	if raw == "" {
		return Missing()
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return Float(f)
	}
	return String(raw)
}

// Value renders the cell back to a string, empty for missing.
func (c Cell) Value() string {
	switch c.Kind {
	case KindFloat:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case KindString:
		return c.Str
	default:
		return ""
	}
}

// Column is one named table column.
type Column struct {
	Name    string
	Numeric bool
}

// Table is the parsed result: ordered named columns and ordered rows of
// mixed-typed cells. Produced fresh on every read; owned by the caller.
type Table struct {
	Columns []Column
	Rows    [][]Cell
}

func (t *Table) NumRows() int {
	return len(t.Rows)
}

func (t *Table) NumCols() int {
	return len(t.Columns)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// build assembles a table from a header and raw rows. Short rows are
// padded with missing cells; long rows are truncated to the header width.
func build(header []string, records [][]string) *Table {
	t := &Table{
		Columns: make([]Column, len(header)),
		Rows:    make([][]Cell, 0, len(records)),
	}
	for i, name := range header {
		t.Columns[i] = Column{Name: name}
	}

	for _, record := range records {
		row := make([]Cell, len(header))
		for i := range header {
			if i < len(record) {
				row[i] = parseCell(record[i])
			} else {
				row[i] = Missing()
			}
		}
		t.Rows = append(t.Rows, row)
	}

	t.inferColumnTypes()
	return t
}

// inferColumnTypes marks a column numeric when it has at least one value
// and every non-missing cell is numeric.
func (t *Table) inferColumnTypes() {
	for i := range t.Columns {
		seen := false
		numeric := true
		for _, row := range t.Rows {
			switch row[i].Kind {
			case KindFloat:
				seen = true
			case KindString:
				numeric = false
			}
		}
		t.Columns[i].Numeric = seen && numeric
	}
}
