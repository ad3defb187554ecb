package table

import (
	"math"
	"strconv"
	"strings"
)

// NumericThreshold is the share of non-blank cells that must parse as numbers
// for a column to count as numeric.
const NumericThreshold = 0.8

var currencySymbols = []string{"Rp", "IDR", "USD", "EUR", "GBP", "JPY", "$", "€", "£", "¥"}

// ParseNumber parses a cell as a number. It accepts thousands separators,
// decimal commas, currency prefixes, percent signs and (123) negatives.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		negative = true
	}
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))

	hasComma := strings.Contains(s, ",")
	hasPeriod := strings.Contains(s, ".")
	switch {
	case hasComma && hasPeriod:
		// whichever separator comes last is the decimal mark
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		// 1,234,567 groups of three are thousands; 12,5 is a decimal comma
		if isGroupedThousands(s, ',') {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ",", ".")
		}
	case strings.Count(s, ".") > 1 && isGroupedThousands(s, '.'):
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.ReplaceAll(s, " ", "")

	if negative {
		s = "-" + s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func isGroupedThousands(s string, sep byte) bool {
	parts := strings.Split(strings.TrimPrefix(s, "-"), string(sep))
	if len(parts) < 2 || len(parts[0]) == 0 || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}

// Floats parses every cell of the column. ok is false for cells that are blank
// or not numbers. numeric reports whether the column as a whole is numeric.
func (c Column) Floats() (values []float64, ok []bool, numeric bool) {
	values = make([]float64, len(c.values))
	ok = make([]bool, len(c.values))
	nonBlank, parsed := 0, 0
	for i, cell := range c.values {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		nonBlank++
		if v, good := ParseNumber(cell); good {
			values[i] = v
			ok[i] = true
			parsed++
		}
	}
	numeric = parsed > 0 && float64(parsed)/float64(nonBlank) >= NumericThreshold
	return values, ok, numeric
}

// IsNumeric reports whether the column holds numbers
func (c Column) IsNumeric() bool {
	_, _, numeric := c.Floats()
	return numeric
}

// NumericColumns returns the names of numeric columns in source order
func (t *Table) NumericColumns() []string {
	var names []string
	for _, c := range t.columns {
		if c.IsNumeric() {
			names = append(names, c.name)
		}
	}
	return names
}
