package chart

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"exportlens/internal/errors"
)

// Arity is the set of columns a chart kind needs
type Arity int

const (
	ArityNone Arity = iota // whole table
	ArityX                 // x only
	ArityXY                // x and y
)

func (a Arity) String() string {
	switch a {
	case ArityX:
		return "x"
	case ArityXY:
		return "x,y"
	default:
		return "none"
	}
}

// Kind enumerates the supported visualization shapes
type Kind int

const (
	KindBar Kind = iota + 1
	KindLine
	KindScatter
	KindPie
	KindHistogram
	KindBox
	KindHeatmap
	KindTreemap
	KindArea
	KindSunburst
)

type kindInfo struct {
	name  string
	label string
	arity Arity
}

var kinds = map[Kind]kindInfo{
	KindBar:       {"bar", "Bar Chart", ArityXY},
	KindLine:      {"line", "Line Chart", ArityXY},
	KindScatter:   {"scatter", "Scatter Plot", ArityXY},
	KindPie:       {"pie", "Pie Chart", ArityXY},
	KindHistogram: {"histogram", "Histogram", ArityX},
	KindBox:       {"box", "Box Plot", ArityXY},
	KindHeatmap:   {"heatmap", "Heatmap", ArityNone},
	KindTreemap:   {"treemap", "Treemap", ArityXY},
	KindArea:      {"area", "Area Chart", ArityXY},
	KindSunburst:  {"sunburst", "Sunburst", ArityXY},
}

// AllKinds lists every kind in menu order
func AllKinds() []Kind {
	return []Kind{KindBar, KindLine, KindScatter, KindPie, KindHistogram, KindBox, KindHeatmap, KindTreemap, KindArea, KindSunburst}
}

// ParseKind maps a kind name such as "bar" or "Bar Chart" to a Kind
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, info := range kinds {
		if s == info.name || s == strings.ToLower(info.label) {
			return k, nil
		}
	}
	return 0, errors.InvalidInput(fmt.Sprintf("unknown chart kind %q", s))
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Label is the human readable menu label
func (k Kind) Label() string { return kinds[k].label }

// Arity returns the columns the kind requires
func (k Kind) Arity() Arity { return kinds[k].arity }

// Categorical reports kinds that treat x as a category label and y as its value
func (k Kind) Categorical() bool {
	return k == KindPie || k == KindTreemap || k == KindSunburst
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Request asks for one chart over a table
type Request struct {
	Kind Kind   `json:"kind"`
	X    string `json:"x,omitempty"`
	Y    string `json:"y,omitempty"`
}

// NewRequest validates that the columns required by kind are named.
// Column names the kind does not use are dropped.
func NewRequest(kind Kind, x, y string) (Request, error) {
	if _, ok := kinds[kind]; !ok {
		return Request{}, errors.InvalidInput(fmt.Sprintf("unknown chart kind %d", int(kind)))
	}
	x, y = strings.TrimSpace(x), strings.TrimSpace(y)
	switch kind.Arity() {
	case ArityNone:
		return Request{Kind: kind}, nil
	case ArityX:
		if x == "" {
			return Request{}, errors.InvalidColumn("%s chart requires an x column", kind)
		}
		return Request{Kind: kind, X: x}, nil
	default:
		if x == "" || y == "" {
			return Request{}, errors.InvalidColumn("%s chart requires x and y columns", kind)
		}
		return Request{Kind: kind, X: x, Y: y}, nil
	}
}

// Point is one row of a pass-through series
type Point struct {
	X        string  `json:"x"`
	XValue   float64 `json:"x_value,omitempty"`
	XNumeric bool    `json:"x_numeric,omitempty"`
	Y        float64 `json:"y"`
	YValid   bool    `json:"y_valid"`
}

// Bin is one histogram bucket. Lower and Upper are zero for categorical counts.
type Bin struct {
	Label string  `json:"label"`
	Lower float64 `json:"lower,omitempty"`
	Upper float64 `json:"upper,omitempty"`
	Count int     `json:"count"`
}

// Box summarizes the y values of one x group
type Box struct {
	Group  string    `json:"group"`
	N      int       `json:"n"`
	Min    float64   `json:"min"`
	Q1     float64   `json:"q1"`
	Median float64   `json:"median"`
	Q3     float64   `json:"q3"`
	Max    float64   `json:"max"`
	Values []float64 `json:"values"`
}

// Matrix is a square correlation matrix over the named columns.
// Cells are NaN where the correlation is undefined.
type Matrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"-"`
}

// Size returns the number of rows (and columns) of the matrix
func (m *Matrix) Size() int { return len(m.Columns) }

func (m *Matrix) MarshalJSON() ([]byte, error) {
	cells := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		cells[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				v := row[j]
				cells[i][j] = &v
			}
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{m.Columns, cells})
}

// Result is a renderable chart description
type Result struct {
	Kind   Kind    `json:"kind"`
	Title  string  `json:"title"`
	XLabel string  `json:"x_label,omitempty"`
	YLabel string  `json:"y_label,omitempty"`
	Points []Point `json:"points,omitempty"`
	Bins   []Bin   `json:"bins,omitempty"`
	Boxes  []Box   `json:"boxes,omitempty"`
	Matrix *Matrix `json:"matrix,omitempty"`
}
