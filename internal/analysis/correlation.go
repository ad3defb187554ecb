package analysis

import (
	"math"

	"exportlens/domain/chart"
	"exportlens/domain/table"
	"exportlens/internal/errors"

	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix computes pairwise Pearson correlation over the numeric
// columns of t. Non-numeric columns are skipped. Each pair uses only the rows
// where both cells parse as numbers; pairs with fewer than two such rows, or
// with zero variance, are NaN. The diagonal is 1.
func CorrelationMatrix(t *table.Table) (*chart.Matrix, error) {
	type numericColumn struct {
		name   string
		values []float64
		ok     []bool
	}

	var cols []numericColumn
	for _, c := range t.Columns() {
		values, ok, numeric := c.Floats()
		if numeric {
			cols = append(cols, numericColumn{name: c.Name(), values: values, ok: ok})
		}
	}
	if len(cols) < 2 {
		return nil, errors.InsufficientData("heatmap needs at least 2 numeric columns")
	}

	n := len(cols)
	m := &chart.Matrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i := range cols {
		m.Columns[i] = cols[i].name
		m.Values[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		m.Values[i][i] = 1
		for j := i + 1; j < n; j++ {
			r := pairwisePearson(cols[i].values, cols[i].ok, cols[j].values, cols[j].ok)
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m, nil
}

func pairwisePearson(x []float64, xok []bool, y []float64, yok []bool) float64 {
	var xs, ys []float64
	for k := range x {
		if xok[k] && yok[k] {
			xs = append(xs, x[k])
			ys = append(ys, y[k])
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}
