// Package chart builds the chart descriptions the dashboard renders. Browser
// panels receive Vega-Lite JSON; the time series can also be rendered to PNG.
package chart

import "encoding/json"

// SchemaURL is the Vega-Lite schema every top-level spec declares.
const SchemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

// Spec is the subset of a Vega-Lite specification the dashboard emits.
type Spec struct {
	Schema     string      `json:"$schema,omitempty"`
	Title      *Title      `json:"title,omitempty"`
	Width      int         `json:"width,omitempty"`
	Height     int         `json:"height,omitempty"`
	Data       *Data       `json:"data,omitempty"`
	Mark       *Mark       `json:"mark,omitempty"`
	Encoding   *Encoding   `json:"encoding,omitempty"`
	Projection *Projection `json:"projection,omitempty"`
	Layer      []Spec      `json:"layer,omitempty"`
}

// Title is a chart title with an optional subtitle.
type Title struct {
	Text     string `json:"text"`
	Subtitle string `json:"subtitle,omitempty"`
}

// Data carries inline values.
type Data struct {
	Values any `json:"values"`
}

// Mark describes how each datum is drawn.
type Mark struct {
	Type        string   `json:"type"`
	Point       bool     `json:"point,omitempty"`
	Align       string   `json:"align,omitempty"`
	Baseline    string   `json:"baseline,omitempty"`
	Size        int      `json:"size,omitempty"`
	FillOpacity *float64 `json:"fillOpacity,omitempty"`
	Stroke      string   `json:"stroke,omitempty"`
	StrokeWidth float64  `json:"strokeWidth,omitempty"`
}

// Encoding maps fields to visual channels.
type Encoding struct {
	X       *Channel  `json:"x,omitempty"`
	Y       *Channel  `json:"y,omitempty"`
	Size    *Channel  `json:"size,omitempty"`
	Color   *Channel  `json:"color,omitempty"`
	Text    *Channel  `json:"text,omitempty"`
	Tooltip []Channel `json:"tooltip,omitempty"`
}

// Channel binds one field with a Vega-Lite type: Q, O or N.
type Channel struct {
	Field string `json:"field"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
	Scale *Scale `json:"scale,omitempty"`
	Axis  *Axis  `json:"axis,omitempty"`
}

// Scale overrides a channel's domain or range.
type Scale struct {
	Domain []float64 `json:"domain,omitempty"`
	Range  any       `json:"range,omitempty"`
}

// Axis tweaks axis rendering.
type Axis struct {
	LabelAngle int `json:"labelAngle"`
}

// Projection sets the geographic projection for geoshape layers.
type Projection struct {
	Type string `json:"type"`
}

// Size is a chart's pixel dimensions.
type Size struct {
	Width  int
	Height int
}

// JSON encodes the spec.
func (s Spec) JSON() (json.RawMessage, error) {
	return json.Marshal(s)
}

func quantitative(field, title string) *Channel {
	return &Channel{Field: field, Type: "quantitative", Title: title}
}
