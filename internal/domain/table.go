package domain

// PointColumns is the fixed schema of every point query result.
var PointColumns = []string{ColumnLatitudeBinned, ColumnLongitudeBinned, ColumnCrashCount}

// SeriesColumns is the fixed schema of every series query result.
var SeriesColumns = []string{ColumnYear, ColumnCategory, ColumnCrashCount}

// PointRow is one map point.
type PointRow struct {
	LatitudeBinned  float64 `json:"latitude_binned"`
	LongitudeBinned float64 `json:"longitude_binned"`
	CrashCount      int64   `json:"crash_count"`
}

// PointTable is the result of a point query. Columns is always PointColumns.
type PointTable struct {
	Columns []string   `json:"columns"`
	Rows    []PointRow `json:"rows"`
}

// Empty reports whether the table has no rows.
func (t PointTable) Empty() bool { return len(t.Rows) == 0 }

// Total sums crash_count over all rows.
func (t PointTable) Total() int64 {
	var total int64
	for _, r := range t.Rows {
		total += r.CrashCount
	}
	return total
}

// Extent returns the min/max latitude and longitude across rows.
// ok is false for an empty table.
func (t PointTable) Extent() (minLat, maxLat, minLon, maxLon float64, ok bool) {
	if t.Empty() {
		return 0, 0, 0, 0, false
	}
	minLat, maxLat = t.Rows[0].LatitudeBinned, t.Rows[0].LatitudeBinned
	minLon, maxLon = t.Rows[0].LongitudeBinned, t.Rows[0].LongitudeBinned
	for _, r := range t.Rows[1:] {
		minLat = min(minLat, r.LatitudeBinned)
		maxLat = max(maxLat, r.LatitudeBinned)
		minLon = min(minLon, r.LongitudeBinned)
		maxLon = max(maxLon, r.LongitudeBinned)
	}
	return minLat, maxLat, minLon, maxLon, true
}

func emptyPointTable() PointTable {
	return PointTable{Columns: pointColumns(), Rows: []PointRow{}}
}

// pointColumns hands out a copy so callers cannot mutate the shared schema.
func pointColumns() []string {
	return append([]string(nil), PointColumns...)
}

// SeriesRow is one (year, category) point on the line chart.
type SeriesRow struct {
	Year       int    `json:"year"`
	Category   string `json:"category"`
	CrashCount int64  `json:"crash_count"`
}

// SeriesTable is the result of a series query. NoData is set when no source
// row matched the filter; Columns is populated either way.
type SeriesTable struct {
	Columns []string    `json:"columns"`
	Rows    []SeriesRow `json:"rows"`
	NoData  bool        `json:"no_data"`
}

// Categories lists the distinct categories in row order.
func (t SeriesTable) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.Rows {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	return out
}

// Total sums crash_count over all rows.
func (t SeriesTable) Total() int64 {
	var total int64
	for _, r := range t.Rows {
		total += r.CrashCount
	}
	return total
}

func noDataSeries() SeriesTable {
	return SeriesTable{Columns: append([]string(nil), SeriesColumns...), Rows: []SeriesRow{}, NoData: true}
}
