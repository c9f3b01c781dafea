package domain

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testCategoryA = "FAILING TO YIELD RIGHT-OF-WAY"
	testCategoryB = "FOLLOWING TOO CLOSELY"
	testCategoryC = "IMPROPER LANE USAGE"
)

// sampleRecords covers two categories over three years with one duplicated
// bin in 2020 and one record missing its longitude.
func sampleRecords() []CrashRecord {
	missingLon := NewRecord(testCategoryA, 2021, 41.90, 0, 7)
	missingLon.LongitudeBinned = sql.NullFloat64{}

	return []CrashRecord{
		NewRecord(testCategoryA, 2019, 41.88, -87.63, 4),
		NewRecord(testCategoryA, 2020, 41.88, -87.63, 3),
		NewRecord(testCategoryA, 2020, 41.88, -87.63, 2),
		NewRecord(testCategoryA, 2020, 41.95, -87.70, 6),
		NewRecord(testCategoryB, 2020, 41.88, -87.63, 10),
		NewRecord(testCategoryB, 2021, 41.75, -87.60, 1),
		missingLon,
	}
}

func newTestStore(t *testing.T, records []CrashRecord) *Store {
	t.Helper()
	s, err := NewStore(records)
	require.NoError(t, err)
	return s
}
