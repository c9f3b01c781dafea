// Package view binds dashboard controls to the two chart panels.
//
// A State is the full set of control values: category dropdown, single-year
// switch, year-range slider and single-year slider. Rendering a State runs the
// point query for the map panel and, in range mode, the series query for the
// time-series panel, then wraps each result in a Panel holding either a chart,
// a "No data available" placeholder, or (series only) a not-applicable marker.
//
// A Session holds one client's State. Applying a control change consults a
// static dispatch table to decide which panels depend on that control under
// the new State, and recomputes only those.
//
//	control       map                 series
//	category      always              always
//	single_mode   always              always
//	year_range    range mode only     range mode only
//	single_year   single mode only    never
package view
