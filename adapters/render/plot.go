package render

import (
	"fmt"
	"image/color"
	"io"
	"sort"

	"exportlens/domain/chart"
	"exportlens/internal/errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// pixels converts an image size to plot lengths at the 96 dpi the png backend uses
func pixels(px int) vg.Length {
	return vg.Length(px) * vg.Inch / 96
}

func savePlot(w io.Writer, p *plot.Plot, opts Options) error {
	wt, err := p.WriterTo(pixels(opts.Width), pixels(opts.Height), "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func newPlot(res *chart.Result) *plot.Plot {
	p := plot.New()
	p.Title.Text = res.Title
	p.X.Label.Text = res.XLabel
	p.Y.Label.Text = res.YLabel
	return p
}

func renderHistogram(w io.Writer, res *chart.Result, opts Options) error {
	if len(res.Bins) == 0 {
		return errors.InsufficientData("no values to bin")
	}

	counts := make(plotter.Values, len(res.Bins))
	labels := make([]string, len(res.Bins))
	for i, b := range res.Bins {
		counts[i] = float64(b.Count)
		labels[i] = b.Label
	}

	p := newPlot(res)
	width := (pixels(opts.Width) - vg.Points(60)) / vg.Length(len(counts)+1)
	bars, err := plotter.NewBarChart(counts, width)
	if err != nil {
		return err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(labels...)
	return savePlot(w, p, opts)
}

func renderBox(w io.Writer, res *chart.Result, opts Options) error {
	if len(res.Boxes) == 0 {
		return errors.InsufficientData("no numeric y values to summarize")
	}

	p := newPlot(res)
	groups := make([]string, len(res.Boxes))
	for i, b := range res.Boxes {
		groups[i] = b.Group
		box, err := plotter.NewBoxPlot(vg.Points(20), float64(i), plotter.Values(b.Values))
		if err != nil {
			return fmt.Errorf("group %s: %w", b.Group, err)
		}
		p.Add(box)
	}
	p.NominalX(groups...)
	return savePlot(w, p, opts)
}

// matrixGrid exposes a correlation matrix as a plotter.GridXYZ with the
// first column at the top of the image
type matrixGrid struct {
	m *chart.Matrix
}

func (g matrixGrid) Dims() (c, r int)   { n := g.m.Size(); return n, n }
func (g matrixGrid) X(c int) float64    { return float64(c) }
func (g matrixGrid) Y(r int) float64    { return float64(r) }
func (g matrixGrid) Z(c, r int) float64 { return g.m.Values[g.m.Size()-1-r][c] }

func renderHeatmap(w io.Writer, res *chart.Result, opts Options) error {
	if res.Matrix == nil || res.Matrix.Size() < 2 {
		return errors.InsufficientData("need at least two numeric columns")
	}

	hm := plotter.NewHeatMap(matrixGrid{m: res.Matrix}, palette.Heat(16, 1))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}

	p := newPlot(res)
	p.Add(hm)

	n := res.Matrix.Size()
	reversed := make([]string, n)
	for i, name := range res.Matrix.Columns {
		reversed[n-1-i] = name
	}
	p.NominalX(res.Matrix.Columns...)
	p.NominalY(reversed...)
	return savePlot(w, p, opts)
}

type tile struct {
	label string
	value float64
}

// treemap lays tiles out by recursive binary splitting of the unit square,
// alternating the cut direction with the longer side
type treemap struct {
	tiles []tile
}

func (tm *treemap) DataRange() (xmin, xmax, ymin, ymax float64) { return 0, 1, 0, 1 }

func (tm *treemap) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	sty := plt.Title.TextStyle
	sty.Font.Size = vg.Points(9)
	sty.Color = color.White
	sty.XAlign = text.XCenter
	sty.YAlign = text.YCenter

	idx := 0
	var layout func(tiles []tile, x0, y0, x1, y1 float64)
	layout = func(tiles []tile, x0, y0, x1, y1 float64) {
		if len(tiles) == 0 {
			return
		}
		if len(tiles) == 1 {
			pts := []vg.Point{
				{X: trX(x0), Y: trY(y0)},
				{X: trX(x1), Y: trY(y0)},
				{X: trX(x1), Y: trY(y1)},
				{X: trX(x0), Y: trY(y1)},
			}
			c.FillPolygon(plotutil.Color(idx), pts)
			idx++
			mid := vg.Point{X: trX((x0 + x1) / 2), Y: trY((y0 + y1) / 2)}
			if trX(x1)-trX(x0) > sty.Width(tiles[0].label) {
				c.FillText(sty, mid, tiles[0].label)
			}
			return
		}

		total := sum(tiles)
		split, acc := 1, tiles[0].value
		for split < len(tiles)-1 && acc+tiles[split].value <= total/2 {
			acc += tiles[split].value
			split++
		}
		frac := acc / total
		if x1-x0 >= y1-y0 {
			xm := x0 + (x1-x0)*frac
			layout(tiles[:split], x0, y0, xm, y1)
			layout(tiles[split:], xm, y0, x1, y1)
		} else {
			ym := y1 - (y1-y0)*frac
			layout(tiles[:split], x0, ym, x1, y1)
			layout(tiles[split:], x0, y0, x1, ym)
		}
	}
	layout(tm.tiles, 0, 0, 1, 1)
}

func sum(tiles []tile) float64 {
	var s float64
	for _, t := range tiles {
		s += t.value
	}
	return s
}

func renderTreemap(w io.Writer, res *chart.Result, opts Options) error {
	// repeated categories are summed
	totals := map[string]float64{}
	var order []string
	for _, p := range validPoints(res.Points) {
		if p.Y <= 0 {
			continue
		}
		if _, ok := totals[p.X]; !ok {
			order = append(order, p.X)
		}
		totals[p.X] += p.Y
	}
	if len(order) == 0 {
		return errors.InsufficientData("no positive values to plot")
	}

	tiles := make([]tile, len(order))
	for i, label := range order {
		tiles[i] = tile{label: label, value: totals[label]}
	}
	sort.SliceStable(tiles, func(i, j int) bool { return tiles[i].value > tiles[j].value })

	p := plot.New()
	p.Title.Text = res.Title
	p.HideAxes()
	p.Add(&treemap{tiles: tiles})
	return savePlot(w, p, opts)
}
