// Package csvstore loads the crash dataset from its CSV export.
package csvstore

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
)

var requiredColumns = []string{
	domain.ColumnCategory,
	domain.ColumnYear,
	domain.ColumnLatitudeBinned,
	domain.ColumnLongitudeBinned,
	domain.ColumnCrashCount,
}

// LoadFile opens path and parses it with Load.
func LoadFile(path string) ([]domain.CrashRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses crash records from CSV. Columns are located by header name, so
// extra columns and any column order are accepted. Blank coordinate and count
// cells load as missing values.
func Load(r io.Reader) ([]domain.CrashRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read csv: %w: missing header row", domain.ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	colIdx := map[string]int{}
	for i, h := range header {
		colIdx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := colIdx[c]; !ok {
			return nil, fmt.Errorf("read csv: %w: missing column %q", domain.ErrMalformed, c)
		}
	}

	var records []domain.CrashRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("read csv line %d: %w: %w", line, domain.ErrMalformed, err)
			}
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		rec, err := parseRow(row, colIdx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", domain.ErrMalformed, line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, colIdx map[string]int) (domain.CrashRecord, error) {
	category := get(row, colIdx, domain.ColumnCategory)
	if category == "" {
		return domain.CrashRecord{}, errors.New("blank category")
	}

	year, err := parseWhole(get(row, colIdx, domain.ColumnYear))
	if err != nil {
		return domain.CrashRecord{}, fmt.Errorf("year: %w", err)
	}

	lat, err := parseNullFloat(get(row, colIdx, domain.ColumnLatitudeBinned))
	if err != nil {
		return domain.CrashRecord{}, fmt.Errorf("latitude_binned: %w", err)
	}
	lon, err := parseNullFloat(get(row, colIdx, domain.ColumnLongitudeBinned))
	if err != nil {
		return domain.CrashRecord{}, fmt.Errorf("longitude_binned: %w", err)
	}

	var count sql.NullInt64
	if s := get(row, colIdx, domain.ColumnCrashCount); !missing(s) {
		n, err := parseWhole(s)
		if err != nil {
			return domain.CrashRecord{}, fmt.Errorf("crash_count: %w", err)
		}
		count = sql.NullInt64{Int64: int64(n), Valid: true}
	}

	rec := domain.CrashRecord{
		Category:        category,
		Year:            year,
		LatitudeBinned:  lat,
		LongitudeBinned: lon,
		CrashCount:      count,
	}
	return rec, rec.Validate()
}

func get(row []string, colIdx map[string]int, col string) string {
	i := colIdx[col]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// missing reports a blank cell or the "nan" pandas writes for a missing value.
func missing(s string) bool {
	return s == "" || strings.EqualFold(s, "nan")
}

// parseWhole accepts "2020" as well as the "2020.0" pandas writes for
// integer columns that once held NaN.
func parseWhole(s string) (int, error) {
	if missing(s) {
		return 0, errors.New("missing value")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	if f < math.MinInt || f >= math.MaxInt {
		return 0, fmt.Errorf("%q is out of range", s)
	}
	return int(f), nil
}

func parseNullFloat(s string) (sql.NullFloat64, error) {
	if missing(s) {
		return sql.NullFloat64{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}, fmt.Errorf("%q is not finite", s)
	}
	return sql.NullFloat64{Float64: f, Valid: true}, nil
}

// Source reads a CSV export from disk on every Extract.
type Source struct {
	Path string
}

// Extract loads all records from the file.
func (s Source) Extract(_ context.Context) ([]domain.CrashRecord, error) {
	return LoadFile(s.Path)
}
