// Command validate checks a crash dataset and its neighborhood boundary file
// before they are handed to the dashboard. It loads both files with the same
// loaders the server uses, then verifies row integrity, slider coverage and
// that the map and series queries agree with each other.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -data data/mock/crashes_binned.csv \
//	  -geo data/mock/neighborhoods.geojson \
//	  -start 2013 -end 2024
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/crash-map-dashboard/internal/adapter/csvstore"
	"github.com/couchcryptid/crash-map-dashboard/internal/adapter/geojson"
	"github.com/couchcryptid/crash-map-dashboard/internal/adapter/sqlitestore"
	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", "", "crash dataset (.csv, or .db/.sqlite/.sqlite3)")
	table := flag.String("table", "traffic_crashes_map", "table name when -data is a SQLite file")
	geoPath := flag.String("geo", "", "neighborhood boundaries GeoJSON")
	start := flag.Int("start", 2013, "first slider year")
	end := flag.Int("end", 2024, "last slider year")
	flag.Parse()

	if *dataPath == "" || *geoPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	bounds := domain.YearRange{Start: *start, End: *end}
	if code := run(*dataPath, *table, *geoPath, bounds); code != 0 {
		os.Exit(code)
	}
}

func run(dataPath, table, geoPath string, bounds domain.YearRange) int {
	fmt.Println("=== Crash Dashboard Data Validation ===")
	fmt.Println()

	if err := bounds.Validate(bounds); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: slider bounds: %v\n", err)
		return 1
	}

	records, err := loadRecords(dataPath, table)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load crash records: %v\n", err)
		return 1
	}

	store, err := domain.NewStore(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: crash records rejected: %v\n", err)
		return 1
	}

	boundaries, err := geojson.LoadFile(geoPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load boundaries: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateRecords(records),
		validateCoverage(store, bounds),
		validateBoundaries(boundaries),
		validateQueryAgreement(store, records, bounds),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d rows, %d categories, %d neighborhoods\n",
		store.Len(), len(store.Categories()), boundaries.Len())

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadRecords(path, table string) ([]domain.CrashRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return sqlitestore.LoadFile(context.Background(), path, table)
	default:
		return csvstore.LoadFile(path)
	}
}

// ── Phase 1: Record Integrity ──
// Flags rows the dashboard would silently skip or mis-aggregate.

func validateRecords(records []domain.CrashRecord) *phase {
	p := &phase{name: "Phase 1: Record Integrity"}

	type key struct {
		category string
		year     int
		lat, lon float64
	}
	seen := map[key]int{}

	var incomplete int
	for i, r := range records {
		if strings.TrimSpace(r.Category) == "" {
			p.errorf("row %d: empty category", i+1)
		}
		if r.Category == domain.AllCategories {
			p.errorf("row %d: category %q collides with the dropdown wildcard", i+1, r.Category)
		}
		if r.LatitudeBinned.Valid != r.LongitudeBinned.Valid {
			p.errorf("row %d: only one of latitude/longitude is set", i+1)
		}
		if !r.Complete() {
			incomplete++
			continue
		}
		k := key{r.Category, r.Year, r.LatitudeBinned.Float64, r.LongitudeBinned.Float64}
		if first, dup := seen[k]; dup {
			p.errorf("row %d: duplicate bin of row %d (%s, %d, %.2f, %.2f)",
				i+1, first, r.Category, r.Year, k.lat, k.lon)
			continue
		}
		seen[k] = i + 1
	}

	if incomplete > 0 {
		fmt.Printf("  Note: %d row(s) lack a location or count and are left off the single-year map\n", incomplete)
	}
	return p
}

// ── Phase 2: Slider Coverage ──
// Every slider year should have data, and no data should sit outside the sliders.

func validateCoverage(store *domain.Store, bounds domain.YearRange) *phase {
	p := &phase{name: "Phase 2: Slider Coverage"}

	span, ok := store.YearSpan()
	if !ok {
		p.errorf("dataset is empty")
		return p
	}
	if span.Start < bounds.Start || span.End > bounds.End {
		p.errorf("data spans %s but sliders cover %s; rows outside are unreachable", span, bounds)
	}
	for year := bounds.Start; year <= bounds.End; year++ {
		if store.FilterSpecificYear(domain.AllCategories, year).Empty() {
			p.errorf("year %d: no mappable rows", year)
		}
	}
	return p
}

// ── Phase 3: Boundaries ──

func validateBoundaries(g *domain.GeoStore) *phase {
	p := &phase{name: "Phase 3: Neighborhood Boundaries"}

	if g.Len() == 0 {
		p.errorf("boundary file has no features")
		return p
	}
	seen := map[string]bool{}
	for i, name := range g.Names() {
		if name == "" {
			p.errorf("feature %d: no name property", i)
			continue
		}
		if seen[name] {
			p.errorf("feature %d: duplicate name %q", i, name)
		}
		seen[name] = true
	}
	return p
}

// ── Phase 4: Query Agreement ──
// The map total plus the rows it cannot place must equal the series total.

func validateQueryAgreement(store *domain.Store, records []domain.CrashRecord, bounds domain.YearRange) *phase {
	p := &phase{name: "Phase 4: Map/Series Agreement"}

	for _, category := range store.CategoryOptions() {
		var unplaced int64
		for _, r := range records {
			if category != domain.AllCategories && r.Category != category {
				continue
			}
			if !bounds.Contains(r.Year) || !r.CrashCount.Valid {
				continue
			}
			if !r.LatitudeBinned.Valid || !r.LongitudeBinned.Valid {
				unplaced += r.CrashCount.Int64
			}
		}

		mapTotal := store.FilterByRange(category, bounds).Total()
		seriesTotal := store.AggregateSeries(category, bounds).Total()
		if mapTotal+unplaced != seriesTotal {
			p.errorf("%s: map %d + unplaced %d != series %d", category, mapTotal, unplaced, seriesTotal)
		}
	}
	return p
}
