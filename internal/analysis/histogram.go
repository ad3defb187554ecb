package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"exportlens/domain/chart"
	"exportlens/domain/table"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram bins a column. Numeric columns get equal-width bins sized by
// Sturges' rule; other columns get value counts in first-seen order.
// Blank cells are ignored either way.
func Histogram(c table.Column) []chart.Bin {
	values, ok, numeric := c.Floats()
	if numeric {
		var xs []float64
		for i, v := range values {
			if ok[i] {
				xs = append(xs, v)
			}
		}
		return NumericBins(xs)
	}
	return valueCounts(c)
}

// NumericBins buckets xs into ceil(log2(n))+1 equal-width bins spanning [min, max]
func NumericBins(xs []float64) []chart.Bin {
	if len(xs) == 0 {
		return nil
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	k := int(math.Ceil(math.Log2(float64(len(sorted))))) + 1
	if lo == hi {
		k = 1
	}

	dividers := make([]float64, k+1)
	if lo == hi {
		dividers[0], dividers[1] = lo, lo+1
	} else {
		floats.Span(dividers, lo, hi)
	}
	// stat.Histogram wants every x strictly below the last divider
	dividers[k] = math.Nextafter(dividers[k], math.Inf(1))

	counts := stat.Histogram(make([]float64, k), dividers, sorted, nil)

	bins := make([]chart.Bin, k)
	for i := range bins {
		upper := dividers[i+1]
		if i == k-1 {
			upper = hi
			if lo == hi {
				upper = lo
			}
		}
		bins[i] = chart.Bin{
			Label: formatFloat(dividers[i]) + " - " + formatFloat(upper),
			Lower: dividers[i],
			Upper: upper,
			Count: int(counts[i]),
		}
	}
	return bins
}

func valueCounts(c table.Column) []chart.Bin {
	index := make(map[string]int)
	var bins []chart.Bin
	for i := 0; i < c.Len(); i++ {
		v := c.Value(i)
		if strings.TrimSpace(v) == "" {
			continue
		}
		pos, seen := index[v]
		if !seen {
			pos = len(bins)
			index[v] = pos
			bins = append(bins, chart.Bin{Label: v})
		}
		bins[pos].Count++
	}
	return bins
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
