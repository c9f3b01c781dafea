package chart

import (
	"encoding/json"
	"testing"

	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s Spec) map[string]any {
	t.Helper()
	raw, err := s.JSON()
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestMap(t *testing.T) {
	points := domain.PointTable{
		Columns: domain.PointColumns,
		Rows: []domain.PointRow{
			{LatitudeBinned: 41.80, LongitudeBinned: -87.70, CrashCount: 1200},
			{LatitudeBinned: 41.90, LongitudeBinned: -87.60, CrashCount: 34},
		},
	}
	backdrop := []json.RawMessage{json.RawMessage(`{"type":"Feature","properties":{},"geometry":null}`)}

	spec := Map(points, backdrop, "Traffic Crashes due to All Causes", Size{Width: 600, Height: 600})

	assert.Equal(t, SchemaURL, spec.Schema)
	assert.Equal(t, "Traffic Crashes due to All Causes", spec.Title.Text)
	assert.Equal(t, "Total crashes: 1,234", spec.Title.Subtitle)
	assert.Equal(t, 600, spec.Width)
	require.Len(t, spec.Layer, 2)

	outlines := spec.Layer[0]
	assert.Equal(t, "geoshape", outlines.Mark.Type)
	assert.Equal(t, 0.0, *outlines.Mark.FillOpacity)
	assert.Equal(t, "black", outlines.Mark.Stroke)
	assert.Equal(t, 0.6, outlines.Mark.StrokeWidth)
	assert.Equal(t, "equirectangular", outlines.Projection.Type)

	circles := spec.Layer[1]
	assert.Equal(t, "circle", circles.Mark.Type)
	assert.InDeltaSlice(t, []float64{-87.71, -87.59}, circles.Encoding.X.Scale.Domain, 1e-9)
	assert.InDeltaSlice(t, []float64{41.79, 41.91}, circles.Encoding.Y.Scale.Domain, 1e-9)
	assert.Equal(t, []int{20, 300}, circles.Encoding.Size.Scale.Range)
	assert.Equal(t, []string{"lightblue", "darkblue"}, circles.Encoding.Color.Scale.Range)
	assert.Len(t, circles.Encoding.Tooltip, 3)

	out := decode(t, spec)
	layers := out["layer"].([]any)
	geoshape := layers[0].(map[string]any)
	assert.Equal(t, 0.0, geoshape["mark"].(map[string]any)["fillOpacity"], "zero fill opacity must be serialized")
	values := layers[1].(map[string]any)["data"].(map[string]any)["values"].([]any)
	assert.Equal(t, 1200.0, values[0].(map[string]any)["crash_count"])
}

func TestLine(t *testing.T) {
	series := domain.SeriesTable{
		Columns: domain.SeriesColumns,
		Rows: []domain.SeriesRow{
			{Year: 2020, Category: "A", CrashCount: 3},
			{Year: 2021, Category: "A", CrashCount: 4},
		},
	}

	spec := Line(series, "Crash Counts Over Time (A)", Size{Width: 500, Height: 500})

	assert.Equal(t, "line", spec.Mark.Type)
	assert.True(t, spec.Mark.Point)
	assert.Equal(t, "year", spec.Encoding.X.Field)
	assert.Equal(t, "ordinal", spec.Encoding.X.Type)
	assert.Equal(t, "category", spec.Encoding.Color.Field)
	assert.Equal(t, "Crash Causes", spec.Encoding.Color.Title)
	assert.Equal(t, "Total crashes: 7", spec.Title.Subtitle)

	out := decode(t, spec)
	x := out["encoding"].(map[string]any)["x"].(map[string]any)
	assert.Equal(t, 0.0, x["axis"].(map[string]any)["labelAngle"])
}

func TestPlaceholder(t *testing.T) {
	spec := Placeholder("No data available for Z in 2016", Size{Width: 600, Height: 400})

	assert.Equal(t, "No data available for Z in 2016", spec.Title.Text)
	assert.Empty(t, spec.Title.Subtitle)
	assert.Equal(t, "text", spec.Mark.Type)
	assert.Equal(t, "center", spec.Mark.Align)
	assert.Equal(t, "middle", spec.Mark.Baseline)
	assert.Equal(t, 20, spec.Mark.Size)
	assert.Equal(t, 400, spec.Height)

	out := decode(t, spec)
	values := out["data"].(map[string]any)["values"].([]any)
	assert.Equal(t, NoDataText, values[0].(map[string]any)["text"])
}

func TestTotalSubtitle(t *testing.T) {
	assert.Equal(t, "Total crashes: 0", TotalSubtitle(0))
	assert.Equal(t, "Total crashes: 1,234,567", TotalSubtitle(1234567))
}
