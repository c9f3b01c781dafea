package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestAggregateSeries(t *testing.T) {
	store := newTestStore(t, sampleRecords())

	t.Run("all categories splits by category", func(t *testing.T) {
		got := store.AggregateSeries(AllCategories, YearRange{Start: 2013, End: 2024})

		assert.False(t, got.NoData)
		assert.Equal(t, SeriesColumns, got.Columns)
		assert.Equal(t, []SeriesRow{
			{Year: 2019, Category: testCategoryA, CrashCount: 4},
			{Year: 2020, Category: testCategoryA, CrashCount: 11},
			{Year: 2020, Category: testCategoryB, CrashCount: 10},
			{Year: 2021, Category: testCategoryA, CrashCount: 7},
			{Year: 2021, Category: testCategoryB, CrashCount: 1},
		}, got.Rows)
	})

	t.Run("single category attaches category to every row", func(t *testing.T) {
		got := store.AggregateSeries(testCategoryB, YearRange{Start: 2013, End: 2024})

		assert.Equal(t, []SeriesRow{
			{Year: 2020, Category: testCategoryB, CrashCount: 10},
			{Year: 2021, Category: testCategoryB, CrashCount: 1},
		}, got.Rows)
		assert.Equal(t, []string{testCategoryB}, got.Categories())
	})

	t.Run("range bounds are inclusive", func(t *testing.T) {
		got := store.AggregateSeries(testCategoryA, YearRange{Start: 2020, End: 2020})
		assert.Equal(t, []SeriesRow{{Year: 2020, Category: testCategoryA, CrashCount: 11}}, got.Rows)
	})

	t.Run("rows missing a location still count", func(t *testing.T) {
		got := store.AggregateSeries(testCategoryA, YearRange{Start: 2021, End: 2021})
		assert.Equal(t, []SeriesRow{{Year: 2021, Category: testCategoryA, CrashCount: 7}}, got.Rows)
	})

	t.Run("no match is flagged", func(t *testing.T) {
		got := store.AggregateSeries("Z", YearRange{Start: 2013, End: 2024})

		assert.True(t, got.NoData)
		assert.Empty(t, got.Rows)
		assert.Equal(t, SeriesColumns, got.Columns)
	})

	t.Run("idempotent", func(t *testing.T) {
		years := YearRange{Start: 2013, End: 2024}
		assert.Empty(t, cmp.Diff(store.AggregateSeries(AllCategories, years), store.AggregateSeries(AllCategories, years)))
	})
}

func TestSeriesTable_Total(t *testing.T) {
	store := newTestStore(t, sampleRecords())
	got := store.AggregateSeries(AllCategories, YearRange{Start: 2013, End: 2024})
	assert.Equal(t, int64(33), got.Total())
}
