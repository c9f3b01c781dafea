// Package domain models the Chicago traffic-crash map dataset and the two
// query shapes the dashboard renders from it.
//
// # Data Source
//
// Crash records arrive pre-aggregated: each row is the number of crashes for
// one (category, year, latitude bin, longitude bin) combination. The upstream
// notebook bins raw crash coordinates to two decimal places, so nearby crashes
// share a single map point.
//
//	category,year,latitude_binned,longitude_binned,crash_count
//	FAILING TO YIELD RIGHT-OF-WAY,2020,41.88,-87.63,14
//
// Coordinate and count cells may be blank in the export. Blank cells load as
// missing values rather than zero so each query can apply its own missing-value
// rule.
//
// # Queries
//
// Point queries feed the map and return (latitude_binned, longitude_binned,
// crash_count) rows:
//
//	single year:  rows for that year, missing values dropped, NOT aggregated
//	year range:   rows in [start, end], summed per (latitude, longitude) bin
//
// Single-year rows are returned as stored, so two rows for the same bin stay
// two map points. Range queries always collapse them. Both shapes are kept
// because the map was built against exactly this behavior.
//
// Series queries feed the line chart and return (year, category, crash_count)
// rows summed per year, one series per category when the category is "All".
//
// # Empty Results
//
// Every result type carries its column schema even with zero rows. A point
// query with no matching rows yields an empty table with the three point
// columns; a series query with no matching rows is flagged NoData so callers
// can tell "nothing matched" apart from a series that happens to be empty.
package domain
