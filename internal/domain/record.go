package domain

import (
	"database/sql"
	"errors"
	"fmt"
)

// AllCategories is the dropdown sentinel that disables the category filter.
const AllCategories = "All"

// Column names shared by the input file and the result tables.
const (
	ColumnCategory        = "category"
	ColumnYear            = "year"
	ColumnLatitudeBinned  = "latitude_binned"
	ColumnLongitudeBinned = "longitude_binned"
	ColumnCrashCount      = "crash_count"
)

// ErrNegativeCount is returned when a record carries a crash_count below zero.
var ErrNegativeCount = errors.New("crash_count must be non-negative")

// ErrMalformed marks input that can never load, however often it is re-read.
var ErrMalformed = errors.New("malformed input")

// CrashRecord is one pre-aggregated row of the crash dataset.
// Coordinate and count fields are nullable because the export may leave them blank.
type CrashRecord struct {
	Category        string
	Year            int
	LatitudeBinned  sql.NullFloat64
	LongitudeBinned sql.NullFloat64
	CrashCount      sql.NullInt64
}

// Complete reports whether the record has a location and a count.
func (r CrashRecord) Complete() bool {
	return r.LatitudeBinned.Valid && r.LongitudeBinned.Valid && r.CrashCount.Valid
}

// Validate checks the load-time rules for a record.
func (r CrashRecord) Validate() error {
	if r.CrashCount.Valid && r.CrashCount.Int64 < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeCount, r.CrashCount.Int64)
	}
	return nil
}

// matchesCategory treats AllCategories as a wildcard.
func (r CrashRecord) matchesCategory(category string) bool {
	return category == AllCategories || r.Category == category
}

// NewRecord builds a fully populated record. Mostly useful in tests and fixtures.
func NewRecord(category string, year int, lat, lon float64, count int64) CrashRecord {
	return CrashRecord{
		Category:        category,
		Year:            year,
		LatitudeBinned:  sql.NullFloat64{Float64: lat, Valid: true},
		LongitudeBinned: sql.NullFloat64{Float64: lon, Valid: true},
		CrashCount:      sql.NullInt64{Int64: count, Valid: true},
	}
}
