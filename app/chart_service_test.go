package app

import (
	"testing"

	"exportlens/domain/chart"
	"exportlens/domain/table"
	"exportlens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New("ekspor.csv", []string{"Negara", "Nilai_Ekspor"}, [][]string{
		{"Jepang", "120"},
		{"Cina", "340"},
		{"India", "95"},
	})
	require.NoError(t, err)
	return tbl
}

func TestBuildChart_BarKeepsRowOrder(t *testing.T) {
	res, err := BuildChart(exportTable(t), chart.Request{Kind: chart.KindBar, X: "Negara", Y: "Nilai_Ekspor"})
	require.NoError(t, err)

	assert.Equal(t, chart.KindBar, res.Kind)
	assert.Equal(t, "Nilai_Ekspor per Negara", res.Title)
	require.Len(t, res.Points, 3)
	assert.Equal(t, chart.Point{X: "Jepang", Y: 120, YValid: true}, res.Points[0])
	assert.Equal(t, chart.Point{X: "Cina", Y: 340, YValid: true}, res.Points[1])
	assert.Equal(t, chart.Point{X: "India", Y: 95, YValid: true}, res.Points[2])
}

func TestBuildChart_NumericX(t *testing.T) {
	tbl, err := table.New("tahunan.csv", []string{"Tahun", "Nilai"}, [][]string{{"2021", "10"}, {"2022", "n/a"}})
	require.NoError(t, err)

	res, err := BuildChart(tbl, chart.Request{Kind: chart.KindLine, X: "Tahun", Y: "Nilai"})
	require.NoError(t, err)
	require.Len(t, res.Points, 2)
	assert.True(t, res.Points[0].XNumeric)
	assert.Equal(t, 2021.0, res.Points[0].XValue)
	assert.False(t, res.Points[1].YValid, "unparseable y is kept but marked")
}

func TestBuildChart_CategoricalKindsKeepLabels(t *testing.T) {
	tbl, err := table.New("tahunan.csv", []string{"Tahun", "Nilai"}, [][]string{{"2021", "10"}, {"2022", "14"}})
	require.NoError(t, err)

	for _, kind := range []chart.Kind{chart.KindPie, chart.KindTreemap, chart.KindSunburst} {
		res, err := BuildChart(tbl, chart.Request{Kind: kind, X: "Tahun", Y: "Nilai"})
		require.NoError(t, err)
		require.Len(t, res.Points, 2)
		assert.Equal(t, chart.Point{X: "2021", Y: 10, YValid: true}, res.Points[0], kind.String())
	}
}

func TestBuildChart_InvalidColumn(t *testing.T) {
	tbl := exportTable(t)
	_, err := BuildChart(tbl, chart.Request{Kind: chart.KindBar, X: "Negara", Y: "Volume"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidColumn, errors.GetCode(err))
	assert.Contains(t, err.Error(), "Volume")

	_, err = BuildChart(tbl, chart.Request{Kind: chart.KindScatter, X: "Negara"})
	assert.Equal(t, errors.CodeInvalidColumn, errors.GetCode(err))
}

func TestBuildChart_NoTable(t *testing.T) {
	_, err := BuildChart(nil, chart.Request{Kind: chart.KindHeatmap})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestBuildChart_Heatmap(t *testing.T) {
	t.Run("no numeric columns", func(t *testing.T) {
		tbl, err := table.New("x.csv", []string{"Negara", "Produk"}, [][]string{{"Jepang", "Kopi"}})
		require.NoError(t, err)
		_, err = BuildChart(tbl, chart.Request{Kind: chart.KindHeatmap})
		assert.Equal(t, errors.CodeInsufficientData, errors.GetCode(err))
	})

	t.Run("one numeric column", func(t *testing.T) {
		_, err := BuildChart(exportTable(t), chart.Request{Kind: chart.KindHeatmap})
		assert.Equal(t, errors.CodeInsufficientData, errors.GetCode(err))
	})

	t.Run("square matrix over numeric columns", func(t *testing.T) {
		tbl, err := table.New("x.csv", []string{"Negara", "Nilai", "Volume", "Harga"}, [][]string{
			{"Jepang", "120", "10", "12"},
			{"Cina", "340", "30", "11.3"},
			{"India", "95", "8", "11.9"},
		})
		require.NoError(t, err)

		res, err := BuildChart(tbl, chart.Request{Kind: chart.KindHeatmap, X: "ignored"})
		require.NoError(t, err)
		require.NotNil(t, res.Matrix)
		assert.Equal(t, []string{"Nilai", "Volume", "Harga"}, res.Matrix.Columns)
		require.Len(t, res.Matrix.Values, 3)
		for i, row := range res.Matrix.Values {
			require.Len(t, row, 3)
			assert.Equal(t, 1.0, row[i])
		}
		assert.Empty(t, res.XLabel)
	})
}

func TestBuildChart_Histogram(t *testing.T) {
	res, err := BuildChart(exportTable(t), chart.Request{Kind: chart.KindHistogram, X: "Nilai_Ekspor"})
	require.NoError(t, err)
	assert.Equal(t, "Distribusi Nilai_Ekspor", res.Title)
	assert.Equal(t, "count", res.YLabel)

	total := 0
	for _, b := range res.Bins {
		total += b.Count
	}
	assert.Equal(t, 3, total)
}

func TestBuildChart_Box(t *testing.T) {
	tbl, err := table.New("x.csv", []string{"Produk", "Nilai"}, [][]string{
		{"Kopi", "1"}, {"Teh", "5"}, {"Kopi", "3"},
	})
	require.NoError(t, err)

	res, err := BuildChart(tbl, chart.Request{Kind: chart.KindBox, X: "Produk", Y: "Nilai"})
	require.NoError(t, err)
	require.Len(t, res.Boxes, 2)
	assert.Equal(t, "Kopi", res.Boxes[0].Group)
	assert.Equal(t, 2, res.Boxes[0].N)
	assert.Len(t, res.Points, 3)
}

func TestBuildChart_DoesNotModifyTable(t *testing.T) {
	tbl := exportTable(t)
	before := tbl.Head(-1)
	for _, k := range chart.AllKinds() {
		_, _ = BuildChart(tbl, chart.Request{Kind: k, X: "Negara", Y: "Nilai_Ekspor"})
	}
	assert.Equal(t, before, tbl.Head(-1))
}
