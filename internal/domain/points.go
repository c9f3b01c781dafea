package domain

import "sort"

// FilterSpecificYear returns the map points for one year. Rows missing a
// coordinate or a count are dropped; duplicate bins are NOT merged.
func (s *Store) FilterSpecificYear(category string, year int) PointTable {
	selected := s.selection(category, func(y int) bool { return y == year })
	if len(selected) == 0 {
		return emptyPointTable()
	}

	rows := make([]PointRow, 0, len(selected))
	for _, r := range selected {
		if !r.Complete() {
			continue
		}
		rows = append(rows, PointRow{
			LatitudeBinned:  r.LatitudeBinned.Float64,
			LongitudeBinned: r.LongitudeBinned.Float64,
			CrashCount:      r.CrashCount.Int64,
		})
	}
	return PointTable{Columns: pointColumns(), Rows: rows}
}

type binKey struct {
	lat, lon float64
}

// FilterByRange returns one map point per (latitude, longitude) bin with
// crash_count summed across every matching year. Rows without a location are
// skipped; a missing count contributes zero. Output is ordered by latitude,
// then longitude.
func (s *Store) FilterByRange(category string, years YearRange) PointTable {
	selected := s.selection(category, years.Contains)
	if len(selected) == 0 {
		return emptyPointTable()
	}

	sums := make(map[binKey]int64)
	for _, r := range selected {
		if !r.LatitudeBinned.Valid || !r.LongitudeBinned.Valid {
			continue
		}
		key := binKey{lat: r.LatitudeBinned.Float64, lon: r.LongitudeBinned.Float64}
		if r.CrashCount.Valid {
			sums[key] += r.CrashCount.Int64
		} else if _, ok := sums[key]; !ok {
			sums[key] = 0
		}
	}

	rows := make([]PointRow, 0, len(sums))
	for k, total := range sums {
		rows = append(rows, PointRow{LatitudeBinned: k.lat, LongitudeBinned: k.lon, CrashCount: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].LatitudeBinned != rows[j].LatitudeBinned {
			return rows[i].LatitudeBinned < rows[j].LatitudeBinned
		}
		return rows[i].LongitudeBinned < rows[j].LongitudeBinned
	})
	return PointTable{Columns: pointColumns(), Rows: rows}
}
