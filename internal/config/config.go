package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataSource      string
	DataTable       string
	GeoJSONPath     string
	HTTPAddr        string
	CORSOrigins     []string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Slider bounds and the initial single-year selection.
	YearMin           int
	YearMax           int
	DefaultSingleYear int

	// Chart dimensions in pixels.
	ChartWidth   int
	MapHeight    int
	SeriesWidth  int
	SeriesHeight int

	// LoadAttempts is how many times startup retries reading each data file.
	LoadAttempts int
	// RenderCacheSize bounds the shared rendered-panel cache; 0 disables it.
	RenderCacheSize int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataSource:      sharedcfg.EnvOrDefault("DATA_SOURCE", "data/traffic_crashes_map.csv"),
		DataTable:       sharedcfg.EnvOrDefault("DATA_TABLE", "traffic_crashes_map"),
		GeoJSONPath:     sharedcfg.EnvOrDefault("GEOJSON_PATH", "data/chicago_neighborhoods.geojson"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		CORSOrigins:     parseList(sharedcfg.EnvOrDefault("CORS_ORIGINS", "*")),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	for _, f := range []struct {
		env  string
		def  int
		dest *int
	}{
		{"YEAR_MIN", 2013, &cfg.YearMin},
		{"YEAR_MAX", 2024, &cfg.YearMax},
		{"DEFAULT_SINGLE_YEAR", 2016, &cfg.DefaultSingleYear},
		{"CHART_WIDTH", 600, &cfg.ChartWidth},
		{"MAP_HEIGHT", 600, &cfg.MapHeight},
		{"SERIES_WIDTH", 500, &cfg.SeriesWidth},
		{"SERIES_HEIGHT", 500, &cfg.SeriesHeight},
		{"LOAD_ATTEMPTS", 3, &cfg.LoadAttempts},
		{"RENDER_CACHE_SIZE", 256, &cfg.RenderCacheSize},
	} {
		v, err := parseInt(f.env, f.def)
		if err != nil {
			return nil, err
		}
		*f.dest = v
	}

	if cfg.DataSource == "" {
		return nil, errors.New("DATA_SOURCE is required")
	}
	if cfg.GeoJSONPath == "" {
		return nil, errors.New("GEOJSON_PATH is required")
	}
	if cfg.UsesSQLite() && cfg.DataTable == "" {
		return nil, errors.New("DATA_TABLE is required for a SQLite DATA_SOURCE")
	}
	if cfg.YearMin > cfg.YearMax {
		return nil, fmt.Errorf("YEAR_MIN (%d) must not exceed YEAR_MAX (%d)", cfg.YearMin, cfg.YearMax)
	}
	if cfg.DefaultSingleYear < cfg.YearMin || cfg.DefaultSingleYear > cfg.YearMax {
		return nil, fmt.Errorf("DEFAULT_SINGLE_YEAR (%d) must lie within YEAR_MIN..YEAR_MAX", cfg.DefaultSingleYear)
	}
	for env, v := range map[string]int{
		"CHART_WIDTH":   cfg.ChartWidth,
		"MAP_HEIGHT":    cfg.MapHeight,
		"SERIES_WIDTH":  cfg.SeriesWidth,
		"SERIES_HEIGHT": cfg.SeriesHeight,
		"LOAD_ATTEMPTS": cfg.LoadAttempts,
	} {
		if v <= 0 {
			return nil, fmt.Errorf("invalid %s: must be positive", env)
		}
	}

	if cfg.RenderCacheSize < 0 {
		return nil, errors.New("invalid RENDER_CACHE_SIZE: must not be negative")
	}

	return cfg, nil
}

// UsesSQLite reports whether DATA_SOURCE points at a SQLite database rather than a CSV file.
func (c *Config) UsesSQLite() bool {
	switch strings.ToLower(filepath.Ext(c.DataSource)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func parseInt(env string, def int) (int, error) {
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", env, err)
	}
	return n, nil
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
