package chart

import (
	"encoding/json"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
)

const (
	// NoDataText is drawn in the middle of a placeholder chart.
	NoDataText = "No data available"

	// extentPadding widens the map axes beyond the outermost points, in degrees.
	extentPadding = 0.01
)

var printer = message.NewPrinter(language.English)

// TotalSubtitle formats a crash total with thousands separators.
func TotalSubtitle(total int64) string {
	return printer.Sprintf("Total crashes: %d", total)
}

// Map layers the neighborhood outlines under one circle per point row.
// Circle size and colour both encode crash_count.
func Map(points domain.PointTable, backdrop []json.RawMessage, title string, size Size) Spec {
	minLat, maxLat, minLon, maxLon, _ := points.Extent()
	noFill := 0.0

	outlines := Spec{
		Data: &Data{Values: backdrop},
		Mark: &Mark{
			Type:        "geoshape",
			FillOpacity: &noFill,
			Stroke:      "black",
			StrokeWidth: 0.6,
		},
		Projection: &Projection{Type: "equirectangular"},
	}

	lon := quantitative(domain.ColumnLongitudeBinned, "Longitude")
	lon.Scale = &Scale{Domain: []float64{minLon - extentPadding, maxLon + extentPadding}}
	lat := quantitative(domain.ColumnLatitudeBinned, "Latitude")
	lat.Scale = &Scale{Domain: []float64{minLat - extentPadding, maxLat + extentPadding}}
	count := quantitative(domain.ColumnCrashCount, "Crash Count")
	count.Scale = &Scale{Range: []int{20, 300}}
	colour := quantitative(domain.ColumnCrashCount, "Crash Count")
	colour.Scale = &Scale{Range: []string{"lightblue", "darkblue"}}

	circles := Spec{
		Data: &Data{Values: points.Rows},
		Mark: &Mark{Type: "circle"},
		Encoding: &Encoding{
			X:     lon,
			Y:     lat,
			Size:  count,
			Color: colour,
			Tooltip: []Channel{
				{Field: domain.ColumnLongitudeBinned, Type: "quantitative"},
				{Field: domain.ColumnLatitudeBinned, Type: "quantitative"},
				{Field: domain.ColumnCrashCount, Type: "quantitative"},
			},
		},
	}

	return Spec{
		Schema: SchemaURL,
		Title:  &Title{Text: title, Subtitle: TotalSubtitle(points.Total())},
		Width:  size.Width,
		Height: size.Height,
		Layer:  []Spec{outlines, circles},
	}
}

// Line draws one line per category with a point at every year.
func Line(series domain.SeriesTable, title string, size Size) Spec {
	return Spec{
		Schema: SchemaURL,
		Title:  &Title{Text: title, Subtitle: TotalSubtitle(series.Total())},
		Width:  size.Width,
		Height: size.Height,
		Data:   &Data{Values: series.Rows},
		Mark:   &Mark{Type: "line", Point: true},
		Encoding: &Encoding{
			X:     &Channel{Field: domain.ColumnYear, Type: "ordinal", Title: "Year", Axis: &Axis{LabelAngle: 0}},
			Y:     quantitative(domain.ColumnCrashCount, "Crash Count"),
			Color: &Channel{Field: domain.ColumnCategory, Type: "nominal", Title: "Crash Causes"},
			Tooltip: []Channel{
				{Field: domain.ColumnYear, Type: "ordinal"},
				{Field: domain.ColumnCategory, Type: "nominal"},
				{Field: domain.ColumnCrashCount, Type: "quantitative"},
			},
		},
	}
}

// Placeholder renders NoDataText centred in an otherwise empty chart.
func Placeholder(title string, size Size) Spec {
	return Spec{
		Schema: SchemaURL,
		Title:  &Title{Text: title},
		Width:  size.Width,
		Height: size.Height,
		Data:   &Data{Values: []map[string]string{{"text": NoDataText}}},
		Mark:   &Mark{Type: "text", Align: "center", Baseline: "middle", Size: 20},
		Encoding: &Encoding{
			Text: &Channel{Field: "text", Type: "nominal"},
		},
	}
}
