package chart

import (
	"bytes"
	"testing"

	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderSeriesPNG(t *testing.T) {
	series := domain.SeriesTable{
		Columns: domain.SeriesColumns,
		Rows: []domain.SeriesRow{
			{Year: 2019, Category: "A", CrashCount: 4},
			{Year: 2020, Category: "A", CrashCount: 11},
			{Year: 2020, Category: "B", CrashCount: 10},
			{Year: 2021, Category: "B", CrashCount: 1},
		},
	}

	var buf bytes.Buffer
	err := RenderSeriesPNG(&buf, series, "Crash Counts Over Time (All Causes)", Size{Width: 500, Height: 500})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderSeriesPNG_FlatSeries(t *testing.T) {
	series := domain.SeriesTable{
		Columns: domain.SeriesColumns,
		Rows: []domain.SeriesRow{
			{Year: 2020, Category: "A", CrashCount: 5},
			{Year: 2021, Category: "A", CrashCount: 5},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderSeriesPNG(&buf, series, "flat", Size{Width: 400, Height: 300}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestRenderSeriesPNG_NoData(t *testing.T) {
	var buf bytes.Buffer
	err := RenderSeriesPNG(&buf, domain.SeriesTable{NoData: true}, "empty", Size{Width: 400, Height: 300})
	require.ErrorIs(t, err, ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestRenderSeriesPNG_SingleYear(t *testing.T) {
	tests := []struct {
		name string
		rows []domain.SeriesRow
	}{
		{
			name: "window of one year",
			rows: []domain.SeriesRow{
				{Year: 2016, Category: "A", CrashCount: 5},
				{Year: 2016, Category: "B", CrashCount: 2},
			},
		},
		{
			name: "one category in one year",
			rows: []domain.SeriesRow{
				{Year: 2020, Category: "B", CrashCount: 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := domain.SeriesTable{Columns: domain.SeriesColumns, Rows: tt.rows}

			var buf bytes.Buffer
			require.NoError(t, RenderSeriesPNG(&buf, series, tt.name, Size{Width: 400, Height: 300}))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestYearTicks_PadsRange(t *testing.T) {
	ticks := yearTicks(2016, 2016)
	require.Len(t, ticks, 3)
	assert.Equal(t, 2015.5, ticks[0].Value)
	assert.Empty(t, ticks[0].Label)
	assert.Equal(t, "2016", ticks[1].Label)
	assert.Equal(t, 2016.5, ticks[2].Value)
	assert.Empty(t, ticks[2].Label)
}
