package app

import (
	"sort"

	"exportlens/domain/table"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
)

// renderTableText serializes the first n rows of t as a markdown table
func renderTableText(t *table.Table, n int) string {
	tw := prettytable.NewWriter()

	header := make(prettytable.Row, 0, len(t.ColumnNames()))
	for _, name := range t.ColumnNames() {
		header = append(header, name)
	}
	tw.AppendHeader(header)

	for _, cells := range t.Head(n) {
		row := make(prettytable.Row, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		tw.AppendRow(row)
	}
	return tw.RenderMarkdown()
}

// fitTableText returns the largest leading slice of t whose serialization
// fits in limit bytes, and how many rows it holds. When even the header
// alone is too long the text is cut at limit.
func fitTableText(t *table.Table, limit int) (text string, rows int) {
	full := renderTableText(t, t.RowCount())
	if len(full) <= limit {
		return full, t.RowCount()
	}

	// largest n in [0, RowCount) that fits; rendering grows with n
	n := sort.Search(t.RowCount(), func(i int) bool {
		return len(renderTableText(t, i+1)) > limit
	})
	text = renderTableText(t, n)
	if len(text) > limit {
		text = truncateUTF8(text, limit)
	}
	return text, n
}

func truncateUTF8(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	// back up to a rune boundary
	for cut > 0 && s[cut]&0xC0 == 0x80 {
		cut--
	}
	return s[:cut]
}
