// Package pipeline loads the dashboard's data once at startup: it extracts
// crash records and neighborhood boundaries, validates them into read-only
// stores and publishes the load gauges.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/crash-map-dashboard/internal/domain"
	"github.com/couchcryptid/crash-map-dashboard/internal/observability"
)

// RecordExtractor reads every crash record from the data source.
type RecordExtractor interface {
	Extract(ctx context.Context) ([]domain.CrashRecord, error)
}

// BoundaryExtractor reads the neighborhood backdrop.
type BoundaryExtractor interface {
	Extract(ctx context.Context) (*domain.GeoStore, error)
}

// Options controls retrying of the extract steps.
type Options struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultOptions starts at 200ms, doubles each retry and caps at 5s.
func DefaultOptions(maxAttempts int) Options {
	return Options{
		MaxAttempts:    maxAttempts,
		InitialBackoff: 200 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
	}
}

// Result is the loaded, validated data.
type Result struct {
	Store *domain.Store
	Geo   *domain.GeoStore
}

// Pipeline orchestrates the one-shot extract-validate-load sequence.
type Pipeline struct {
	records    RecordExtractor
	boundaries BoundaryExtractor
	opts       Options
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Pipeline with the given extractors and observability.
func New(records RecordExtractor, boundaries BoundaryExtractor, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &Pipeline{
		records:    records,
		boundaries: boundaries,
		opts:       opts,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run extracts both data sets, retrying transient read failures, and builds
// the stores. Malformed input or a record that fails validation aborts the
// load without retry.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()

	records, err := withRetry(ctx, p, "records", p.records.Extract)
	if err != nil {
		return Result{}, fmt.Errorf("extract records: %w", err)
	}
	store, err := domain.NewStore(records)
	if err != nil {
		return Result{}, fmt.Errorf("validate records: %w", err)
	}
	p.metrics.RowsLoaded.Set(float64(store.Len()))

	geo, err := withRetry(ctx, p, "boundaries", p.boundaries.Extract)
	if err != nil {
		return Result{}, fmt.Errorf("extract boundaries: %w", err)
	}
	p.metrics.GeoFeaturesLoaded.Set(float64(geo.Len()))

	span, _ := store.YearSpan()
	p.logger.Info("data loaded",
		"rows", store.Len(),
		"categories", len(store.Categories()),
		"years", span.String(),
		"neighborhoods", geo.Len(),
		"duration", time.Since(start),
	)
	return Result{Store: store, Geo: geo}, nil
}

// withRetry calls extract until it succeeds or attempts run out. Malformed
// input and a done ctx stop it early.
func withRetry[T any](ctx context.Context, p *Pipeline, stage string, extract func(context.Context) (T, error)) (T, error) {
	var zero T
	backoff := p.opts.InitialBackoff

	for attempt := 1; ; attempt++ {
		v, err := extract(ctx)
		if err == nil {
			return v, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if errors.Is(err, domain.ErrMalformed) {
			return zero, err
		}
		if attempt >= p.opts.MaxAttempts {
			return zero, fmt.Errorf("after %d attempts: %w", attempt, err)
		}

		p.logger.Warn("extract failed, retrying",
			"stage", stage,
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)
		p.metrics.LoadRetries.WithLabelValues(stage).Inc()

		if !retry.SleepWithContext(ctx, backoff) {
			return zero, ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, p.opts.MaxBackoff)
	}
}
