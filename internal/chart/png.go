package chart

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
)

// ErrNoData is returned when asked to render a series flagged NoData.
var ErrNoData = errors.New("no data to render")

// RenderSeriesPNG draws series as a PNG line chart, one line per category.
func RenderSeriesPNG(w io.Writer, series domain.SeriesTable, title string, size Size) error {
	if series.NoData || len(series.Rows) == 0 {
		return ErrNoData
	}

	byCategory := make(map[string]*gochart.ContinuousSeries)
	var lines []gochart.Series
	minYear, maxYear := series.Rows[0].Year, series.Rows[0].Year
	minCount, maxCount := series.Rows[0].CrashCount, series.Rows[0].CrashCount

	for _, category := range series.Categories() {
		color := gochart.GetDefaultColor(len(byCategory))
		s := &gochart.ContinuousSeries{
			Name: category,
			Style: gochart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
		}
		byCategory[category] = s
	}
	for _, r := range series.Rows {
		s := byCategory[r.Category]
		s.XValues = append(s.XValues, float64(r.Year))
		s.YValues = append(s.YValues, float64(r.CrashCount))
		minYear, maxYear = min(minYear, r.Year), max(maxYear, r.Year)
		minCount, maxCount = min(minCount, r.CrashCount), max(maxCount, r.CrashCount)
	}
	for _, category := range series.Categories() {
		lines = append(lines, *byCategory[category])
	}

	ch := gochart.Chart{
		Title:  title,
		Width:  size.Width,
		Height: size.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Name:           "Year",
			ValueFormatter: yearFormatter,
			Ticks:          yearTicks(minYear, maxYear),
		},
		YAxis: gochart.YAxis{
			Name: "Crash Count",
		},
		Series: lines,
	}
	// go-chart refuses a zero-height range, which a flat series would produce.
	if minCount == maxCount {
		ch.YAxis.Range = &gochart.ContinuousRange{Min: 0, Max: float64(maxCount) + 1}
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}

	if err := ch.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render series png: %w", err)
	}
	return nil
}

func yearFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.Itoa(int(f))
	}
	return ""
}

// yearTicks labels every year and adds unlabeled bookends half a year out.
// go-chart takes the x-range from the ticks, so a single year would
// otherwise leave it zero wide.
func yearTicks(from, to int) []gochart.Tick {
	ticks := make([]gochart.Tick, 0, to-from+3)
	ticks = append(ticks, gochart.Tick{Value: float64(from) - 0.5})
	for y := from; y <= to; y++ {
		ticks = append(ticks, gochart.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	return append(ticks, gochart.Tick{Value: float64(to) + 0.5})
}
