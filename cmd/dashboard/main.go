package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/crash-map-dashboard/internal/adapter/csvstore"
	"github.com/couchcryptid/crash-map-dashboard/internal/adapter/geojson"
	httpadapter "github.com/couchcryptid/crash-map-dashboard/internal/adapter/http"
	"github.com/couchcryptid/crash-map-dashboard/internal/adapter/sqlitestore"
	"github.com/couchcryptid/crash-map-dashboard/internal/chart"
	"github.com/couchcryptid/crash-map-dashboard/internal/config"
	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
	"github.com/couchcryptid/crash-map-dashboard/internal/observability"
	"github.com/couchcryptid/crash-map-dashboard/internal/pipeline"
	"github.com/couchcryptid/crash-map-dashboard/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Select the row source by file extension.
	var records pipeline.RecordExtractor = csvstore.Source{Path: cfg.DataSource}
	if cfg.UsesSQLite() {
		records = sqlitestore.Source{Path: cfg.DataSource, Table: cfg.DataTable}
	}
	boundaries := geojson.Source{Path: cfg.GeoJSONPath}

	// Both data sets are loaded once; nothing is read from disk after this.
	loaded, err := pipeline.New(records, boundaries, pipeline.DefaultOptions(cfg.LoadAttempts), logger, metrics).Run(ctx)
	if err != nil {
		logger.Error("failed to load data",
			"source", cfg.DataSource,
			"geojson", cfg.GeoJSONPath,
			"error", err,
		)
		os.Exit(1)
	}

	binding := view.NewBinding(loaded.Store, loaded.Geo, view.Options{
		Bounds:            domain.YearRange{Start: cfg.YearMin, End: cfg.YearMax},
		DefaultSingleYear: cfg.DefaultSingleYear,
		MapSize:           chart.Size{Width: cfg.ChartWidth, Height: cfg.MapHeight},
		SeriesSize:        chart.Size{Width: cfg.SeriesWidth, Height: cfg.SeriesHeight},
		CacheSize:         cfg.RenderCacheSize,
	}, logger, metrics, nil)

	srv := httpadapter.NewServer(cfg.HTTPAddr, binding, cfg.CORSOrigins, logger)

	go func() {
		logger.Info("dashboard listening", "addr", cfg.HTTPAddr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
