// Package repository loads the brand health dataset and serves read-only
// views of it.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/brandhealth/internal/domain/model"
	"github.com/okian/brandhealth/pkg/logger"
	"github.com/okian/brandhealth/pkg/metrics"
)

// Repository owns the loaded dataset. Accessors hand out copies, so the
// stored dataset stays immutable for the life of the process.
type Repository struct {
	mu     sync.RWMutex
	source Source
	log    logger.Logger
	ds     *model.Dataset
}

// New creates a repository. Nothing is read until Load is called.
func New(opts ...Option) *Repository {
	r := &Repository{
		source: NewEmbeddedSource(),
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load reads, defaults and validates the dataset from the configured source
// and returns a copy of it. Any failure is wrapped in ErrDataUnavailable and
// leaves a previously loaded dataset in place.
func (r *Repository) Load(ctx context.Context) (*model.Dataset, error) {
	const op = "repository.load"
	start := time.Now()
	kind := r.source.Kind()

	ds, err := r.source.Read(ctx)
	if err == nil {
		err = ds.Validate()
	}
	if err != nil {
		metrics.RecordDatasetLoadFailure(kind)
		r.log.Error(ctx, "dataset load failed",
			logger.String("source", r.source.Location()),
			logger.Error(err))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w: %w", op, ErrDataUnavailable, err)
		}
		return nil, fmt.Errorf("%s: %s: %w: %w", op, r.source.Location(), ErrDataUnavailable, err)
	}

	r.mu.Lock()
	r.ds = ds
	r.mu.Unlock()

	metrics.RecordDatasetLoad(kind)
	metrics.RecordLoadDuration(float64(time.Since(start).Microseconds()) / 1000)
	metrics.UpdateMarketCount(len(ds.Markets))
	metrics.UpdateHistoryLength(len(ds.History))
	r.log.Info(ctx, "dataset loaded",
		logger.String("source", r.source.Location()),
		logger.String("period", ds.Period),
		logger.Int("markets", len(ds.Markets)),
		logger.Int("quarters", len(ds.History)),
		logger.Int("projection_periods", len(ds.Projections.Periods)))
	return ds.Clone(), nil
}

// Loaded reports whether a dataset is available.
func (r *Repository) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ds != nil
}

func (r *Repository) current(op string) (*model.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.ds == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotLoaded)
	}
	return r.ds, nil
}

// Dataset returns a copy of the whole loaded dataset.
func (r *Repository) Dataset(ctx context.Context) (*model.Dataset, error) {
	ds, err := r.current("repository.dataset")
	if err != nil {
		return nil, err
	}
	return ds.Clone(), nil
}

// Period returns the label of the loaded wave.
func (r *Repository) Period(ctx context.Context) (string, error) {
	ds, err := r.current("repository.period")
	if err != nil {
		return "", err
	}
	return ds.Period, nil
}

// Markets returns all markets in dataset order.
func (r *Repository) Markets(ctx context.Context) ([]model.Market, error) {
	ds, err := r.current("repository.markets")
	if err != nil {
		return nil, err
	}
	return ds.Clone().Markets, nil
}

// Overall returns the all-markets KPI for metric.
func (r *Repository) Overall(ctx context.Context, metric model.Metric) (model.OverallKPI, error) {
	const op = "repository.overall"
	ds, err := r.current(op)
	if err != nil {
		return model.OverallKPI{}, err
	}
	if !metric.Valid() {
		return model.OverallKPI{}, fmt.Errorf("%s: metric %q: %w", op, metric, model.ErrInvalidMetricKey)
	}
	kpi, _ := ds.OverallFor(metric)
	return kpi, nil
}

// QuarterlyHistory returns the snapshots in chronological order.
func (r *Repository) QuarterlyHistory(ctx context.Context) ([]model.QuarterlySnapshot, error) {
	ds, err := r.current("repository.quarterly_history")
	if err != nil {
		return nil, err
	}
	return ds.Clone().History, nil
}

// Projections returns the projected series.
func (r *Repository) Projections(ctx context.Context) (model.ProjectionSeries, error) {
	ds, err := r.current("repository.projections")
	if err != nil {
		return model.ProjectionSeries{}, err
	}
	return ds.Clone().Projections, nil
}

// AtRiskEntries returns the curated at-risk list.
func (r *Repository) AtRiskEntries(ctx context.Context) ([]model.AtRiskEntry, error) {
	ds, err := r.current("repository.at_risk_entries")
	if err != nil {
		return nil, err
	}
	return ds.Clone().AtRisk, nil
}
