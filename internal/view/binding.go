package view

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/crash-map-dashboard/internal/chart"
	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
	"github.com/couchcryptid/crash-map-dashboard/internal/observability"
)

// seriesPlaceholderHeight matches the shorter no-data card of the series panel.
const seriesPlaceholderHeight = 400

// Options configures slider bounds, defaults and chart sizes.
type Options struct {
	Bounds            domain.YearRange
	DefaultSingleYear int
	MapSize           chart.Size
	SeriesSize        chart.Size

	// CacheSize bounds the shared rendered-panel cache; zero disables it.
	CacheSize int
}

// Binding turns control state into rendered panels. It reads the stores and
// never writes them, so one Binding serves every session.
type Binding struct {
	store   *domain.Store
	geo     *domain.GeoStore
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	cache   *panelCache
}

// NewBinding wires the stores to the chart builders. A nil clock uses real time.
func NewBinding(store *domain.Store, geo *domain.GeoStore, opts Options, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Binding {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Binding{
		store:   store,
		geo:     geo,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
		cache:   newPanelCache(opts.CacheSize),
	}
}

// Controls describes the UI surface: dropdown choices, slider bounds and the
// initial state.
type Controls struct {
	Categories []string         `json:"categories"`
	Bounds     domain.YearRange `json:"bounds"`
	Step       int              `json:"step"`
	Initial    State            `json:"initial"`
}

// Controls returns the dropdown options and slider configuration.
func (b *Binding) Controls() Controls {
	return Controls{
		Categories: b.store.CategoryOptions(),
		Bounds:     b.opts.Bounds,
		Step:       1,
		Initial:    b.InitialState(),
	}
}

// InitialState is "All" categories, range mode over the full bounds.
func (b *Binding) InitialState() State {
	return State{
		Category:   domain.AllCategories,
		SingleMode: false,
		YearRange:  b.opts.Bounds,
		SingleYear: b.opts.DefaultSingleYear,
	}
}

// Validate checks slider values against the configured bounds. Any category
// is accepted; an unknown one simply matches no rows.
func (b *Binding) Validate(s State) error {
	if err := s.YearRange.Validate(b.opts.Bounds); err != nil {
		return err
	}
	return b.opts.Bounds.CheckYear(s.SingleYear)
}

// CheckReadiness reports whether both stores are loaded.
func (b *Binding) CheckReadiness(_ context.Context) error {
	if b.store == nil || b.store.Len() == 0 {
		return errors.New("crash records not loaded")
	}
	if b.geo == nil {
		return errors.New("neighborhood boundaries not loaded")
	}
	return nil
}

// Backdrop returns the neighborhood features drawn under the map.
func (b *Binding) Backdrop() []json.RawMessage {
	return b.geo.Features()
}

// ErrNotApplicable is returned when a series export is requested in
// single-year mode.
var ErrNotApplicable = errors.New("time series not applicable in single-year mode")

// RenderSeriesPNG writes the series panel for s as a PNG. It returns
// ErrNotApplicable in single-year mode and chart.ErrNoData when nothing matched.
func (b *Binding) RenderSeriesPNG(w io.Writer, s State) error {
	series, ok := b.Series(s)
	if !ok {
		return ErrNotApplicable
	}
	return chart.RenderSeriesPNG(w, series, SeriesTitle(s.Category), b.opts.SeriesSize)
}

// Points runs the point query selected by the switch.
func (b *Binding) Points(s State) domain.PointTable {
	if s.SingleMode {
		return b.store.FilterSpecificYear(s.Category, s.SingleYear)
	}
	return b.store.FilterByRange(s.Category, s.YearRange)
}

// Series runs the series query. ok is false in single-year mode, where the
// series panel does not apply.
func (b *Binding) Series(s State) (table domain.SeriesTable, ok bool) {
	if s.SeriesMode() == SeriesNotApplicable {
		return domain.SeriesTable{}, false
	}
	return b.store.AggregateSeries(s.Category, s.YearRange), true
}

// Render recomputes both panels, map first.
func (b *Binding) Render(s State) []Panel {
	return b.RenderOutputs([]Output{OutputMap, OutputSeries}, s)
}

// RenderOutputs recomputes the named panels in order.
func (b *Binding) RenderOutputs(outputs []Output, s State) []Panel {
	panels := make([]Panel, 0, len(outputs))
	for _, o := range outputs {
		panels = append(panels, b.RenderOutput(o, s))
	}
	return panels
}

// RenderOutput recomputes one panel, or returns the cached panel for an
// identical state.
func (b *Binding) RenderOutput(o Output, s State) Panel {
	label := string(o)
	key := panelKey{output: o, state: s}
	if p, ok := b.cache.get(key); ok {
		b.metrics.RenderCacheHits.WithLabelValues(label).Inc()
		return p
	}

	start := b.clock.Now()

	var p Panel
	switch o {
	case OutputMap:
		p = b.renderMap(s)
	default:
		p = b.renderSeries(s)
	}

	b.metrics.Recomputations.WithLabelValues(label).Inc()
	b.metrics.RecomputeDuration.WithLabelValues(label).Observe(b.clock.Since(start).Seconds())
	if p.State == PanelPlaceholder {
		b.metrics.EmptyResults.WithLabelValues(label).Inc()
		b.logger.Debug("no data for selection",
			"output", label,
			"category", s.Category,
			"selection", s.Selection(),
		)
	}
	b.cache.put(key, p)
	return p
}

func (b *Binding) renderMap(s State) Panel {
	points := b.Points(s)
	if points.Empty() {
		title := NoDataTitle(s.Category, s.Selection())
		spec := chart.Placeholder(title, b.opts.MapSize)
		return Panel{Output: OutputMap, State: PanelPlaceholder, Title: title, Spec: &spec}
	}

	title := MapTitle(s.Category)
	spec := chart.Map(points, b.geo.Features(), title, b.opts.MapSize)
	return Panel{Output: OutputMap, State: PanelChart, Title: title, Spec: &spec}
}

func (b *Binding) renderSeries(s State) Panel {
	series, ok := b.Series(s)
	if !ok {
		return Panel{Output: OutputSeries, State: PanelNotApplicable}
	}
	if series.NoData {
		title := NoDataTitle(s.Category, s.YearRange.String())
		size := chart.Size{Width: b.opts.MapSize.Width, Height: seriesPlaceholderHeight}
		spec := chart.Placeholder(title, size)
		return Panel{Output: OutputSeries, State: PanelPlaceholder, Title: title, Spec: &spec}
	}

	title := SeriesTitle(s.Category)
	spec := chart.Line(series, title, b.opts.SeriesSize)
	return Panel{Output: OutputSeries, State: PanelChart, Title: title, Spec: &spec}
}
