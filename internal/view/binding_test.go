package view

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crash-map-dashboard/internal/chart"
	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
	"github.com/couchcryptid/crash-map-dashboard/internal/observability"
)

const (
	testCategoryA = "FAILING TO YIELD RIGHT-OF-WAY"
	testCategoryB = "FOLLOWING TOO CLOSELY"
)

var testOptions = Options{
	Bounds:            domain.YearRange{Start: 2013, End: 2024},
	DefaultSingleYear: 2016,
	MapSize:           chart.Size{Width: 600, Height: 600},
	SeriesSize:        chart.Size{Width: 500, Height: 500},
}

type fixture struct {
	binding *Binding
	metrics *observability.Metrics
	clock   *clockwork.FakeClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, err := domain.NewStore([]domain.CrashRecord{
		domain.NewRecord(testCategoryA, 2016, 41.88, -87.63, 3),
		domain.NewRecord(testCategoryA, 2016, 41.88, -87.63, 2),
		domain.NewRecord(testCategoryA, 2020, 41.95, -87.70, 6),
		domain.NewRecord(testCategoryB, 2020, 41.88, -87.63, 10),
	})
	require.NoError(t, err)

	geo := domain.NewGeoStore([]domain.GeoFeature{{
		Name:         "Loop",
		GeometryType: "Polygon",
		Feature:      json.RawMessage(`{"type":"Feature","properties":{"pri_neigh":"Loop"},"geometry":{"type":"Polygon","coordinates":[]}}`),
	}})

	metrics := observability.NewMetricsForTesting()
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.December, 1, 12, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return fixture{
		binding: NewBinding(store, geo, testOptions, logger, metrics, clock),
		metrics: metrics,
		clock:   clock,
	}
}

func TestBinding_InitialState(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, State{
		Category:   domain.AllCategories,
		SingleMode: false,
		YearRange:  domain.YearRange{Start: 2013, End: 2024},
		SingleYear: 2016,
	}, f.binding.InitialState())
}

func TestBinding_Controls(t *testing.T) {
	f := newFixture(t)
	c := f.binding.Controls()

	assert.Equal(t, []string{domain.AllCategories, testCategoryA, testCategoryB}, c.Categories)
	assert.Equal(t, domain.YearRange{Start: 2013, End: 2024}, c.Bounds)
	assert.Equal(t, 1, c.Step)
	assert.Equal(t, f.binding.InitialState(), c.Initial)
}

func TestBinding_Render_RangeAllCategories(t *testing.T) {
	f := newFixture(t)
	panels := f.binding.Render(f.binding.InitialState())
	require.Len(t, panels, 2)

	m := panels[0]
	assert.Equal(t, OutputMap, m.Output)
	assert.Equal(t, PanelChart, m.State)
	assert.Equal(t, "Traffic Crashes due to All Causes", m.Title)
	require.NotNil(t, m.Spec)
	require.Len(t, m.Spec.Layer, 2)
	assert.Equal(t, []domain.PointRow{
		{LatitudeBinned: 41.88, LongitudeBinned: -87.63, CrashCount: 15},
		{LatitudeBinned: 41.95, LongitudeBinned: -87.70, CrashCount: 6},
	}, m.Spec.Layer[1].Data.Values)

	s := panels[1]
	assert.Equal(t, OutputSeries, s.Output)
	assert.Equal(t, PanelChart, s.State)
	assert.Equal(t, "Crash Counts Over Time (All Causes)", s.Title)
	rows, ok := s.Spec.Data.Values.([]domain.SeriesRow)
	require.True(t, ok)
	assert.Len(t, rows, 3)
	assert.Equal(t, 500, s.Spec.Width)
}

func TestBinding_Render_SingleYear(t *testing.T) {
	f := newFixture(t)
	st := f.binding.InitialState()
	st.SingleMode = true
	st.Category = testCategoryA

	panels := f.binding.Render(st)
	require.Len(t, panels, 2)

	assert.Equal(t, PanelChart, panels[0].State)
	assert.Equal(t, "Traffic Crashes due to "+testCategoryA, panels[0].Title)
	assert.Len(t, panels[0].Spec.Layer[1].Data.Values, 2, "single-year mode keeps duplicate bins")

	assert.Equal(t, Panel{Output: OutputSeries, State: PanelNotApplicable}, panels[1])
}

func TestBinding_Render_NoDataScenario(t *testing.T) {
	f := newFixture(t)

	t.Run("range mode", func(t *testing.T) {
		st := f.binding.InitialState()
		st.Category = "Z"

		panels := f.binding.Render(st)
		require.Len(t, panels, 2)

		assert.Equal(t, PanelPlaceholder, panels[0].State)
		assert.Equal(t, "No data available for Z in 2013-2024", panels[0].Title)
		assert.Equal(t, "text", panels[0].Spec.Mark.Type)
		assert.Equal(t, 600, panels[0].Spec.Height)

		assert.Equal(t, PanelPlaceholder, panels[1].State)
		assert.Equal(t, "No data available for Z in 2013-2024", panels[1].Title)
		assert.Equal(t, 400, panels[1].Spec.Height)
	})

	t.Run("single-year mode", func(t *testing.T) {
		st := f.binding.InitialState()
		st.Category = "Z"
		st.SingleMode = true
		st.SingleYear = 2018

		panels := f.binding.Render(st)
		assert.Equal(t, "No data available for Z in 2018", panels[0].Title)
		assert.Equal(t, PanelNotApplicable, panels[1].State)
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.EmptyResults.WithLabelValues("map")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.EmptyResults.WithLabelValues("series")))
}

func TestBinding_Render_Idempotent(t *testing.T) {
	f := newFixture(t)
	st := f.binding.InitialState()

	assert.Empty(t, cmp.Diff(f.binding.Render(st), f.binding.Render(st)))
}

func TestBinding_Render_CountsRecomputations(t *testing.T) {
	f := newFixture(t)
	f.binding.Render(f.binding.InitialState())
	f.binding.RenderOutput(OutputMap, f.binding.InitialState())

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.Recomputations.WithLabelValues("map")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Recomputations.WithLabelValues("series")))
}

func TestBinding_Validate(t *testing.T) {
	f := newFixture(t)

	st := f.binding.InitialState()
	require.NoError(t, f.binding.Validate(st))

	st.YearRange = domain.YearRange{Start: 2020, End: 2015}
	assert.ErrorIs(t, f.binding.Validate(st), domain.ErrInvalidYearRange)

	st = f.binding.InitialState()
	st.SingleYear = 2030
	assert.ErrorIs(t, f.binding.Validate(st), domain.ErrYearOutOfBounds)

	st = f.binding.InitialState()
	st.Category = "not a real category"
	assert.NoError(t, f.binding.Validate(st))
}

func TestBinding_CheckReadiness(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.binding.CheckReadiness(context.Background()))

	empty, err := domain.NewStore(nil)
	require.NoError(t, err)
	b := NewBinding(empty, domain.NewGeoStore(nil), testOptions, slog.Default(), f.metrics, nil)
	assert.Error(t, b.CheckReadiness(context.Background()))

	b = NewBinding(f.binding.store, nil, testOptions, slog.Default(), f.metrics, nil)
	assert.Error(t, b.CheckReadiness(context.Background()))
}

func TestState_Modes(t *testing.T) {
	tests := []struct {
		name       string
		state      State
		wantMap    MapMode
		wantSeries SeriesMode
		selection  string
	}{
		{
			name:       "range all",
			state:      State{Category: domain.AllCategories, YearRange: domain.YearRange{Start: 2013, End: 2024}},
			wantMap:    MapYearRange,
			wantSeries: SeriesMulti,
			selection:  "2013-2024",
		},
		{
			name:       "range single category",
			state:      State{Category: testCategoryA, YearRange: domain.YearRange{Start: 2015, End: 2017}},
			wantMap:    MapYearRange,
			wantSeries: SeriesSingle,
			selection:  "2015-2017",
		},
		{
			name:       "single year",
			state:      State{Category: domain.AllCategories, SingleMode: true, SingleYear: 2016},
			wantMap:    MapSingleYear,
			wantSeries: SeriesNotApplicable,
			selection:  "2016",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMap, tt.state.MapMode())
			assert.Equal(t, tt.wantSeries, tt.state.SeriesMode())
			assert.Equal(t, tt.selection, tt.state.Selection())
		})
	}
}

func TestTitles(t *testing.T) {
	assert.Equal(t, "Traffic Crashes due to All Causes", MapTitle(domain.AllCategories))
	assert.Equal(t, "Traffic Crashes due to SPEEDING", MapTitle("SPEEDING"))
	assert.Equal(t, "Crash Counts Over Time (All Causes)", SeriesTitle(domain.AllCategories))
	assert.Equal(t, "Crash Counts Over Time (SPEEDING)", SeriesTitle("SPEEDING"))
	assert.Equal(t, "No data available for All in 2013", NoDataTitle(domain.AllCategories, "2013"))
}

func TestBinding_RenderSeriesPNG(t *testing.T) {
	f := newFixture(t)
	st := f.binding.InitialState()

	var buf bytes.Buffer
	require.NoError(t, f.binding.RenderSeriesPNG(&buf, st))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	st.Category = "Z"
	assert.ErrorIs(t, f.binding.RenderSeriesPNG(&bytes.Buffer{}, st), chart.ErrNoData)

	st.SingleMode = true
	assert.ErrorIs(t, f.binding.RenderSeriesPNG(&bytes.Buffer{}, st), ErrNotApplicable)
}

func TestBinding_Backdrop(t *testing.T) {
	f := newFixture(t)
	features := f.binding.Backdrop()
	require.Len(t, features, 1)
	assert.Contains(t, string(features[0]), `"pri_neigh":"Loop"`)
}
