// Command genmock writes a deterministic synthetic crash dataset and a
// matching neighborhood boundary file, so the dashboard can run without the
// real city export. The same seed always produces byte-identical output.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -csv-out data/mock/crashes_binned.csv \
//	  -geo-out data/mock/neighborhoods.geojson \
//	  -seed 2016
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	geo "github.com/paulmach/go.geojson"

	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
)

// Bounding box of the generated city, in degrees.
const (
	minLat  = 41.65
	maxLat  = 42.02
	minLon  = -87.94
	maxLon  = -87.52
	binSize = 0.01
)

// causes are weighted so the generated series has a clear leader and a long tail.
var causes = []struct {
	name   string
	weight float64
}{
	{"UNABLE TO DETERMINE", 1.0},
	{"FAILING TO YIELD RIGHT-OF-WAY", 0.55},
	{"FOLLOWING TOO CLOSELY", 0.5},
	{"IMPROPER OVERTAKING/PASSING", 0.25},
	{"FAILING TO REDUCE SPEED TO AVOID CRASH", 0.22},
	{"DISREGARDING TRAFFIC SIGNALS", 0.12},
	{"IMPROPER BACKING", 0.1},
	{"DRIVING SKILLS/KNOWLEDGE/EXPERIENCE", 0.08},
}

type options struct {
	csvOut    string
	geoOut    string
	seed      uint64
	startYear int
	endYear   int
	density   float64
	missing   float64
	gridCols  int
	gridRows  int
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var opts options
	flag.StringVar(&opts.csvOut, "csv-out", "", "output path for the crash CSV")
	flag.StringVar(&opts.geoOut, "geo-out", "", "output path for the neighborhood GeoJSON")
	flag.Uint64Var(&opts.seed, "seed", 2016, "random seed")
	flag.IntVar(&opts.startYear, "start", 2013, "first year to generate")
	flag.IntVar(&opts.endYear, "end", 2024, "last year to generate")
	flag.Float64Var(&opts.density, "density", 0.15, "fraction of bins populated per cause and year")
	flag.Float64Var(&opts.missing, "missing", 0.01, "fraction of rows written without coordinates")
	flag.IntVar(&opts.gridCols, "grid-cols", 6, "neighborhood columns")
	flag.IntVar(&opts.gridRows, "grid-rows", 8, "neighborhood rows")
	flag.Parse()

	if opts.csvOut == "" || opts.geoOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -csv-out, -geo-out")
	}
	if opts.startYear > opts.endYear {
		return fmt.Errorf("start year %d after end year %d", opts.startYear, opts.endYear)
	}

	records := generate(opts)
	if err := writeCSV(opts.csvOut, records); err != nil {
		return fmt.Errorf("writing crash CSV: %w", err)
	}
	log.Printf("wrote crash CSV: %s (%d rows)", opts.csvOut, len(records))

	fc := neighborhoods(opts.gridCols, opts.gridRows)
	if err := writeGeoJSON(opts.geoOut, fc); err != nil {
		return fmt.Errorf("writing neighborhoods: %w", err)
	}
	log.Printf("wrote neighborhoods: %s (%d features)", opts.geoOut, len(fc.Features))

	return printStats(records, domain.YearRange{Start: opts.startYear, End: opts.endYear})
}

// generate walks every bin for every cause and year and keeps a seeded
// fraction of them. Counts fall off with distance from downtown.
func generate(opts options) []domain.CrashRecord {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))

	latBins := int(math.Round((maxLat - minLat) / binSize))
	lonBins := int(math.Round((maxLon - minLon) / binSize))

	var records []domain.CrashRecord
	for year := opts.startYear; year <= opts.endYear; year++ {
		// 2020 dips, matching the drop in traffic that year.
		yearFactor := 1.0
		if year == 2020 {
			yearFactor = 0.7
		}
		for _, c := range causes {
			for i := range latBins {
				for j := range lonBins {
					if rng.Float64() >= opts.density*c.weight {
						continue
					}
					lat := round2(minLat + float64(i)*binSize)
					lon := round2(minLon + float64(j)*binSize)
					count := int64(1 + rng.IntN(int(1+12*c.weight*yearFactor*centrality(lat, lon))))

					rec := domain.NewRecord(c.name, year, lat, lon, count)
					if rng.Float64() < opts.missing {
						rec.LatitudeBinned.Valid = false
						rec.LongitudeBinned.Valid = false
					}
					records = append(records, rec)
				}
			}
		}
	}
	return records
}

// centrality is 1 at downtown and decays toward the edges of the box.
func centrality(lat, lon float64) float64 {
	const downtownLat, downtownLon = 41.88, -87.63
	d := math.Hypot(lat-downtownLat, lon-downtownLon)
	return math.Exp(-d * 8)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func writeCSV(path string, records []domain.CrashRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		domain.ColumnCategory,
		domain.ColumnYear,
		domain.ColumnLatitudeBinned,
		domain.ColumnLongitudeBinned,
		domain.ColumnCrashCount,
	}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{r.Category, strconv.Itoa(r.Year), "", "", ""}
		if r.LatitudeBinned.Valid {
			row[2] = strconv.FormatFloat(r.LatitudeBinned.Float64, 'f', 2, 64)
		}
		if r.LongitudeBinned.Valid {
			row[3] = strconv.FormatFloat(r.LongitudeBinned.Float64, 'f', 2, 64)
		}
		if r.CrashCount.Valid {
			row[4] = strconv.FormatInt(r.CrashCount.Int64, 10)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// neighborhoods tiles the bounding box with rectangular polygons named
// like the city's community areas.
func neighborhoods(cols, rows int) *geo.FeatureCollection {
	fc := geo.NewFeatureCollection()
	dLat := (maxLat - minLat) / float64(rows)
	dLon := (maxLon - minLon) / float64(cols)
	for r := range rows {
		for c := range cols {
			south := minLat + float64(r)*dLat
			west := minLon + float64(c)*dLon
			ring := [][]float64{
				{west, south},
				{west + dLon, south},
				{west + dLon, south + dLat},
				{west, south + dLat},
				{west, south},
			}
			f := geo.NewPolygonFeature([][][]float64{ring})
			f.SetProperty("pri_neigh", fmt.Sprintf("Area %c%d", 'A'+rune(r), c+1))
			fc.AddFeature(f)
		}
	}
	return fc
}

func writeGeoJSON(path string, fc *geo.FeatureCollection) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// printStats runs the dashboard queries over the generated rows, giving the
// numbers test assertions and screenshots can be checked against.
func printStats(records []domain.CrashRecord, years domain.YearRange) error {
	store, err := domain.NewStore(records)
	if err != nil {
		return fmt.Errorf("generated records rejected: %w", err)
	}

	fmt.Println("\n=== Stats for the generated dataset ===")
	fmt.Printf("Rows: %d\n", store.Len())
	fmt.Printf("Categories (%d):\n", len(store.Categories()))
	for _, c := range store.Categories() {
		fmt.Printf("  %-40s %d\n", c, store.AggregateSeries(c, years).Total())
	}

	all := store.AggregateSeries(domain.AllCategories, years)
	points := store.FilterByRange(domain.AllCategories, years)
	fmt.Printf("\nAll causes %s: %d crashes, %d map points (%d crashes located)\n",
		years, all.Total(), len(points.Rows), points.Total())

	single := store.FilterSpecificYear(domain.AllCategories, years.Start)
	fmt.Printf("Single year %d: %d rows\n", years.Start, len(single.Rows))
	return nil
}
