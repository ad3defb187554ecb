// Package render draws chart descriptions as PNG images.
//
// Series-style charts (bar, line, area, scatter, pie, sunburst) go through
// go-chart; statistical shapes (histogram, box, heatmap, treemap) go through
// gonum/plot.
package render

import (
	"fmt"
	"io"

	"exportlens/domain/chart"
	"exportlens/internal/errors"
)

// Options controls the output image size in pixels
type Options struct {
	Width  int
	Height int
}

// DefaultOptions returns an 800x480 canvas
func DefaultOptions() Options {
	return Options{Width: 800, Height: 480}
}

// PNG renders res to w
func PNG(w io.Writer, res *chart.Result, opts Options) error {
	if res == nil {
		return errors.InvalidInput("nothing to render")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}

	var err error
	switch res.Kind {
	case chart.KindBar:
		err = renderBar(w, res, opts)
	case chart.KindLine, chart.KindArea, chart.KindScatter:
		err = renderSeries(w, res, opts)
	case chart.KindPie:
		err = renderPie(w, res, opts)
	case chart.KindSunburst:
		err = renderDonut(w, res, opts)
	case chart.KindHistogram:
		err = renderHistogram(w, res, opts)
	case chart.KindBox:
		err = renderBox(w, res, opts)
	case chart.KindHeatmap:
		err = renderHeatmap(w, res, opts)
	case chart.KindTreemap:
		err = renderTreemap(w, res, opts)
	default:
		return errors.InvalidInput(fmt.Sprintf("no renderer for chart kind %s", res.Kind))
	}
	if err != nil {
		return errors.Wrapf(err, "render %s chart", res.Kind)
	}
	return nil
}

// validPoints drops points whose y did not parse as a number
func validPoints(points []chart.Point) []chart.Point {
	out := make([]chart.Point, 0, len(points))
	for _, p := range points {
		if p.YValid {
			out = append(out, p)
		}
	}
	return out
}
