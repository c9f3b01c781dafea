package view

import (
	"strconv"

	"github.com/couchcryptid/crash-map-dashboard/internal/chart"
	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
)

// Control names one dashboard input.
type Control string

const (
	ControlCategory   Control = "category"
	ControlSingleMode Control = "single_mode"
	ControlYearRange  Control = "year_range"
	ControlSingleYear Control = "single_year"
)

// Output names one chart panel.
type Output string

const (
	OutputMap    Output = "map"
	OutputSeries Output = "series"
)

// MapMode is the map panel's display mode, chosen by the switch.
type MapMode string

const (
	MapSingleYear MapMode = "single_year"
	MapYearRange  MapMode = "year_range"
)

// SeriesMode is the time-series panel's effective state.
type SeriesMode string

const (
	SeriesNotApplicable SeriesMode = "not_applicable"
	SeriesMulti         SeriesMode = "multi_series"
	SeriesSingle        SeriesMode = "single_series"
)

// State is the complete set of control values for one dashboard.
type State struct {
	Category   string           `json:"category"`
	SingleMode bool             `json:"single_mode"`
	YearRange  domain.YearRange `json:"year_range"`
	SingleYear int              `json:"single_year"`
}

// MapMode reports which point query the map panel runs.
func (s State) MapMode() MapMode {
	if s.SingleMode {
		return MapSingleYear
	}
	return MapYearRange
}

// SeriesMode reports what the time-series panel shows.
func (s State) SeriesMode() SeriesMode {
	switch {
	case s.SingleMode:
		return SeriesNotApplicable
	case s.Category == domain.AllCategories:
		return SeriesMulti
	default:
		return SeriesSingle
	}
}

// Selection is the active year selection as titles show it: "2016" in
// single-year mode, "2013-2024" in range mode.
func (s State) Selection() string {
	if s.SingleMode {
		return strconv.Itoa(s.SingleYear)
	}
	return s.YearRange.String()
}

// PanelState says what a panel holds.
type PanelState string

const (
	PanelChart         PanelState = "chart"
	PanelPlaceholder   PanelState = "placeholder"
	PanelNotApplicable PanelState = "not_applicable"
)

// Panel is one rendered output. Spec is nil for not-applicable panels.
type Panel struct {
	Output Output      `json:"output"`
	State  PanelState  `json:"state"`
	Title  string      `json:"title,omitempty"`
	Spec   *chart.Spec `json:"spec,omitempty"`
}
