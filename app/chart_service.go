package app

import (
	"fmt"

	"exportlens/domain/chart"
	"exportlens/domain/table"
	"exportlens/internal/analysis"
	"exportlens/internal/errors"
)

// BuildChart maps a chart request over a table to a renderable description.
// It performs no I/O and never modifies the table.
func BuildChart(t *table.Table, req chart.Request) (*chart.Result, error) {
	if t == nil {
		return nil, errors.InvalidInput("no table loaded")
	}
	req, err := chart.NewRequest(req.Kind, req.X, req.Y)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{req.X, req.Y} {
		if name != "" && !t.HasColumn(name) {
			return nil, errors.InvalidColumn("column %q not found in %s", name, t.Name())
		}
	}

	res := &chart.Result{Kind: req.Kind, XLabel: req.X, YLabel: req.Y}

	switch req.Kind {
	case chart.KindHeatmap:
		m, err := analysis.CorrelationMatrix(t)
		if err != nil {
			return nil, err
		}
		res.Title = "Korelasi antar kolom numerik"
		res.Matrix = m

	case chart.KindHistogram:
		col, _ := t.Column(req.X)
		res.Title = "Distribusi " + req.X
		res.YLabel = "count"
		res.Bins = analysis.Histogram(col)

	default:
		res.Title = fmt.Sprintf("%s per %s", req.Y, req.X)
		res.Points = series(t, req)
		if req.Kind == chart.KindBox {
			res.Boxes = analysis.Boxes(res.Points)
		}
	}
	return res, nil
}

// series pairs x and y row by row, keeping source order. Categorical kinds
// keep x as a label even when it parses as a number.
func series(t *table.Table, req chart.Request) []chart.Point {
	xc, _ := t.Column(req.X)
	yc, _ := t.Column(req.Y)
	xv, xok, xNumeric := xc.Floats()
	xNumeric = xNumeric && !req.Kind.Categorical()
	yv, yok, _ := yc.Floats()

	points := make([]chart.Point, t.RowCount())
	for i := range points {
		points[i] = chart.Point{
			X:      xc.Value(i),
			Y:      yv[i],
			YValid: yok[i],
		}
		if xNumeric && xok[i] {
			points[i].XValue = xv[i]
			points[i].XNumeric = true
		}
	}
	return points
}
