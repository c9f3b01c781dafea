package domain

import "sort"

type seriesKey struct {
	year     int
	category string
}

// AggregateSeries sums crash_count per year within years. For AllCategories
// the sum is also split by category, yielding one series per category;
// otherwise only the selected category is kept and its name is attached to
// every row. If nothing matches, the result is flagged NoData.
//
// Rows are ordered by year, then category.
func (s *Store) AggregateSeries(category string, years YearRange) SeriesTable {
	selected := s.selection(category, years.Contains)
	if len(selected) == 0 {
		return noDataSeries()
	}

	sums := make(map[seriesKey]int64)
	for _, r := range selected {
		key := seriesKey{year: r.Year, category: category}
		if category == AllCategories {
			key.category = r.Category
		}
		if r.CrashCount.Valid {
			sums[key] += r.CrashCount.Int64
		} else if _, ok := sums[key]; !ok {
			sums[key] = 0
		}
	}

	rows := make([]SeriesRow, 0, len(sums))
	for k, total := range sums {
		rows = append(rows, SeriesRow{Year: k.year, Category: k.category, CrashCount: total})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Category < rows[j].Category
	})
	return SeriesTable{Columns: append([]string(nil), SeriesColumns...), Rows: rows}
}
