package analysis

import (
	"strings"

	"exportlens/domain/chart"
	"exportlens/domain/table"

	"github.com/montanaflynn/stats"
)

// ColumnProfile is a compact description of one column for the table view
type ColumnProfile struct {
	Name     string   `json:"name"`
	Kind     string   `json:"kind"` // numeric|text
	NonBlank int      `json:"non_blank"`
	Unique   int      `json:"unique"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Mean     *float64 `json:"mean,omitempty"`
	Median   *float64 `json:"median,omitempty"`
}

// Profile describes every column of t in source order
func Profile(t *table.Table) []ColumnProfile {
	cols := t.Columns()
	profiles := make([]ColumnProfile, 0, len(cols))
	for _, c := range cols {
		p := ColumnProfile{Name: c.Name(), Kind: "text"}

		unique := make(map[string]struct{})
		for i := 0; i < c.Len(); i++ {
			v := c.Value(i)
			if strings.TrimSpace(v) == "" {
				continue
			}
			p.NonBlank++
			unique[v] = struct{}{}
		}
		p.Unique = len(unique)

		values, ok, numeric := c.Floats()
		if numeric {
			p.Kind = "numeric"
			var data stats.Float64Data
			for i, v := range values {
				if ok[i] {
					data = append(data, v)
				}
			}
			p.Min = statOrNil(stats.Min, data)
			p.Max = statOrNil(stats.Max, data)
			p.Mean = statOrNil(stats.Mean, data)
			p.Median = statOrNil(stats.Median, data)
		}
		profiles = append(profiles, p)
	}
	return profiles
}

func statOrNil(fn func(stats.Float64Data) (float64, error), data stats.Float64Data) *float64 {
	v, err := fn(data)
	if err != nil {
		return nil
	}
	return &v
}

// Boxes groups ys by the matching xs label, in first-seen order, and
// summarizes each group with its five-number summary. Invalid ys are dropped.
func Boxes(points []chart.Point) []chart.Box {
	index := make(map[string]int)
	var groups []chart.Box
	for _, p := range points {
		if !p.YValid {
			continue
		}
		pos, seen := index[p.X]
		if !seen {
			pos = len(groups)
			index[p.X] = pos
			groups = append(groups, chart.Box{Group: p.X})
		}
		groups[pos].Values = append(groups[pos].Values, p.Y)
	}

	for i := range groups {
		data := stats.Float64Data(groups[i].Values)
		groups[i].N = len(data)
		groups[i].Min, _ = stats.Min(data)
		groups[i].Max, _ = stats.Max(data)
		groups[i].Median, _ = stats.Median(data)
		if len(data) == 1 {
			groups[i].Q1, groups[i].Q3 = data[0], data[0]
			continue
		}
		q, err := stats.Quartile(data)
		if err == nil {
			groups[i].Q1, groups[i].Q3 = q.Q1, q.Q3
		}
	}
	return groups
}
