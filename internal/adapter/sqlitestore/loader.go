// Package sqlitestore loads the crash dataset from a SQLite table, for
// deployments that keep the binned export in a database instead of a CSV.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/couchcryptid/crash-map-dashboard/internal/domain"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// tableNameRe restricts table names to plain identifiers since the name is
// interpolated into the query.
var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadFile opens the database at path read-only and loads table.
func LoadFile(ctx context.Context, path, table string) ([]domain.CrashRecord, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return Load(ctx, db, table)
}

// Load reads every row of table. The table must have the columns category,
// year, latitude_binned, longitude_binned and crash_count; NULL coordinates
// and counts load as missing values. Rows come back in rowid order.
func Load(ctx context.Context, db *sql.DB, table string) ([]domain.CrashRecord, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", domain.ErrMalformed, table)
	}

	query := fmt.Sprintf(
		`SELECT category, CAST(year AS INTEGER), latitude_binned, longitude_binned, CAST(crash_count AS INTEGER)
		FROM %s ORDER BY rowid`, table)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var records []domain.CrashRecord
	for rows.Next() {
		var rec domain.CrashRecord
		if err := rows.Scan(&rec.Category, &rec.Year, &rec.LatitudeBinned, &rec.LongitudeBinned, &rec.CrashCount); err != nil {
			return nil, fmt.Errorf("%w: scan %s row %d: %w", domain.ErrMalformed, table, len(records)+1, err)
		}
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %w", domain.ErrMalformed, table, len(records)+1, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return records, nil
}

// Source reads one table of a SQLite database on every Extract.
type Source struct {
	Path  string
	Table string
}

// Extract loads all records from the table.
func (s Source) Extract(ctx context.Context) ([]domain.CrashRecord, error) {
	return LoadFile(ctx, s.Path, s.Table)
}
