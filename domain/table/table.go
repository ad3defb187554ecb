package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Column is a named, ordered sequence of raw cell values
type Column struct {
	name   string
	values []string
}

// Name returns the column header
func (c Column) Name() string { return c.name }

// Len returns the number of cells in the column
func (c Column) Len() int { return len(c.values) }

// Value returns the raw cell at row i
func (c Column) Value(i int) string { return c.values[i] }

// Values returns a copy of the column cells
func (c Column) Values() []string {
	out := make([]string, len(c.values))
	copy(out, c.values)
	return out
}

// Table is an in-memory tabular dataset loaded from one uploaded file.
// All columns have the same length and a Table is never modified after New returns.
type Table struct {
	name    string
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a table from a header row and data rows.
// Short rows are padded with empty cells; a row wider than the header is rejected.
// Blank and duplicate headers are renamed so every column name is unique.
func New(name string, headers []string, rows [][]string) (*Table, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("no columns to parse from file")
	}

	names := uniqueHeaders(headers)
	columns := make([]Column, len(names))
	for i, n := range names {
		columns[i] = Column{name: n, values: make([]string, len(rows))}
	}

	for r, row := range rows {
		if len(row) > len(names) {
			return nil, fmt.Errorf("expected %d fields in line %d, saw %d", len(names), r+2, len(row))
		}
		for c, cell := range row {
			columns[c].values[r] = cell
		}
	}

	index := make(map[string]int, len(columns))
	for i, col := range columns {
		index[col.name] = i
	}

	return &Table{name: name, columns: columns, index: index, rows: len(rows)}, nil
}

// uniqueHeaders trims headers, names blank ones "Unnamed: N" and suffixes repeats with ".K"
func uniqueHeaders(headers []string) []string {
	out := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		base := h
		for {
			if _, dup := seen[h]; !dup {
				break
			}
			seen[base]++
			h = fmt.Sprintf("%s.%d", base, seen[base])
		}
		seen[h] = 0
		out[i] = h
	}
	return out
}

// Name returns the source name (usually the uploaded filename)
func (t *Table) Name() string { return t.name }

// RowCount returns the number of data rows
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// IsEmpty reports whether the table has no data rows
func (t *Table) IsEmpty() bool { return t.RowCount() == 0 }

// ColumnNames returns the headers in source order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// Columns returns the columns in source order
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column looks up a column by exact name
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// HasColumn reports whether name is one of the table headers
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Row returns a copy of row i across all columns
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.columns))
	for c, col := range t.columns {
		row[c] = col.values[i]
	}
	return row
}

// Head returns up to n rows from the top of the table
func (t *Table) Head(n int) [][]string {
	if n > t.rows || n < 0 {
		n = t.rows
	}
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		rows[i] = t.Row(i)
	}
	return rows
}
