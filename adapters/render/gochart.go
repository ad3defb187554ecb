package render

import (
	"io"

	"exportlens/domain/chart"
	"exportlens/internal/errors"

	gochart "github.com/wcharczuk/go-chart/v2"
)

var background = gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}

func renderBar(w io.Writer, res *chart.Result, opts Options) error {
	points := validPoints(res.Points)
	if len(points) == 0 {
		return errors.InsufficientData("no numeric y values to plot")
	}

	bars := make([]gochart.Value, len(points))
	ys := []float64{0}
	for i, p := range points {
		bars[i] = gochart.Value{Label: p.X, Value: p.Y}
		ys = append(ys, p.Y)
	}
	bc := gochart.BarChart{
		Title:      res.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: background,
		BarWidth:   barWidth(len(bars), opts.Width),
		YAxis:      gochart.YAxis{Range: paddedRange(ys)},
		Bars:       bars,
	}
	return bc.Render(gochart.PNG, w)
}

func barWidth(n, width int) int {
	if n == 0 {
		return 40
	}
	bw := (width - 80) / (n * 2)
	switch {
	case bw < 4:
		return 4
	case bw > 60:
		return 60
	}
	return bw
}

// renderSeries draws line, area and scatter charts. A numeric x column is
// plotted on a continuous axis; otherwise rows are spaced evenly and
// labelled with the x values.
func renderSeries(w io.Writer, res *chart.Result, opts Options) error {
	points := validPoints(res.Points)
	if len(points) == 0 {
		return errors.InsufficientData("no numeric y values to plot")
	}

	numericX := true
	for _, p := range points {
		if !p.XNumeric {
			numericX = false
			break
		}
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	xAxis := gochart.XAxis{Name: res.XLabel}
	for i, p := range points {
		ys[i] = p.Y
		if numericX {
			xs[i] = p.XValue
		} else {
			xs[i] = float64(i)
			xAxis.Ticks = append(xAxis.Ticks, gochart.Tick{Value: float64(i), Label: p.X})
		}
	}
	// go-chart takes the x range from the ticks, so a single tick is
	// flanked by blank ones
	xAxis.Range = paddedRange(xs)
	if len(xAxis.Ticks) == 1 {
		xAxis.Ticks = []gochart.Tick{{Value: xAxis.Range.GetMin()}, xAxis.Ticks[0], {Value: xAxis.Range.GetMax()}}
	}

	style := gochart.Style{StrokeColor: gochart.ColorBlue, StrokeWidth: 2}
	switch {
	case res.Kind == chart.KindScatter, len(points) == 1:
		// a lone point has no segment to stroke or fill
		style = gochart.Style{StrokeWidth: gochart.Disabled, DotWidth: 4, DotColor: gochart.ColorBlue}
	case res.Kind == chart.KindArea:
		style.FillColor = gochart.ColorBlue.WithAlpha(64)
	}

	ch := gochart.Chart{
		Title:      res.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: background,
		XAxis:      xAxis,
		YAxis:      gochart.YAxis{Name: res.YLabel, Range: paddedRange(ys)},
		Series: []gochart.Series{
			gochart.ContinuousSeries{Name: res.YLabel, XValues: xs, YValues: ys, Style: style},
		},
	}
	return ch.Render(gochart.PNG, w)
}

func bounds(vs []float64) (lo, hi float64) {
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// paddedRange widens a degenerate range so single points still render
func paddedRange(vs []float64) *gochart.ContinuousRange {
	lo, hi := bounds(vs)
	if lo == hi {
		return &gochart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

// sliceValues keeps the positive category values used by pie-like charts
func sliceValues(res *chart.Result) ([]gochart.Value, error) {
	var values []gochart.Value
	for _, p := range validPoints(res.Points) {
		if p.Y > 0 {
			values = append(values, gochart.Value{Label: p.X, Value: p.Y})
		}
	}
	if len(values) == 0 {
		return nil, errors.InsufficientData("no positive values to plot")
	}
	return values, nil
}

func renderPie(w io.Writer, res *chart.Result, opts Options) error {
	values, err := sliceValues(res)
	if err != nil {
		return err
	}
	pc := gochart.PieChart{
		Title:  res.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}
	return pc.Render(gochart.PNG, w)
}

// renderDonut draws a sunburst. With a single category level a sunburst is a
// ring of slices, which is what the donut chart draws.
func renderDonut(w io.Writer, res *chart.Result, opts Options) error {
	values, err := sliceValues(res)
	if err != nil {
		return err
	}
	dc := gochart.DonutChart{
		Title:  res.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Values: values,
	}
	return dc.Render(gochart.PNG, w)
}
