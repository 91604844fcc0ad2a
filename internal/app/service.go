// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/okian/brandhealth/internal/adapters/export"
	"github.com/okian/brandhealth/internal/adapters/repository"
	"github.com/okian/brandhealth/internal/domain/engine"
	"github.com/okian/brandhealth/internal/domain/model"
	"github.com/okian/brandhealth/pkg/logger"
	"github.com/okian/brandhealth/pkg/metrics"
)

// Service implements the API dependencies for the brand health dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	repo *repository.Repository

	// Configuration
	dataPath  string
	strategy  engine.MidpointStrategy
	fixed     engine.Midpoints
	midpoints engine.Midpoints

	// State
	started  bool
	loadedAt time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataPath loads the dataset from a .yaml, .toml, .csv or .xlsx file
// instead of the embedded wave.
func WithDataPath(path string) Option {
	return func(s *Service) {
		s.dataPath = path
	}
}

// WithMidpointStrategy selects how quadrant midpoints are resolved.
func WithMidpointStrategy(strategy engine.MidpointStrategy) Option {
	return func(s *Service) {
		if strategy != "" {
			s.strategy = strategy
		}
	}
}

// WithFixedMidpoints sets the midpoints used by the fixed strategy.
func WithFixedMidpoints(mid engine.Midpoints) Option {
	return func(s *Service) {
		s.fixed = mid
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		strategy: engine.StrategyFixed,
		fixed:    engine.DefaultMidpoints,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset once. A failed load is returned as is and never
// retried; the service stays unstarted.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting brand health service...")

	src := repository.Source(repository.NewEmbeddedSource())
	if s.dataPath != "" {
		fs, err := repository.NewFileSource(s.dataPath)
		if err != nil {
			return fmt.Errorf("service.start: %w: %w", repository.ErrDataUnavailable, err)
		}
		src = fs
	}
	repo := repository.New(
		repository.WithSource(src),
		repository.WithLogger(s.logger.Named("repository")),
	)
	ds, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("service.start: %w", err)
	}

	mid, err := engine.ResolveMidpoints(ds, s.strategy, s.fixed)
	if err != nil {
		return fmt.Errorf("service.start: %w", err)
	}

	s.repo = repo
	s.midpoints = mid
	s.loadedAt = time.Now()
	s.started = true
	s.logger.Info(ctx, "brand health service started",
		logger.String("source", src.Location()),
		logger.String("period", ds.Period),
		logger.String("quadrantStrategy", string(s.strategy)),
		logger.Float64("performanceMidpoint", mid.Performance),
		logger.Float64("growthMidpoint", mid.Growth),
	)
	return nil
}

// Stop marks the service as stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.repo = nil
	s.logger.Info(context.Background(), "brand health service stopped")
}

// dataset returns the loaded dataset or repository.ErrNotLoaded.
func (s *Service) dataset(ctx context.Context) (*model.Dataset, error) {
	s.mu.RLock()
	repo := s.repo
	s.mu.RUnlock()
	if repo == nil {
		return nil, repository.ErrNotLoaded
	}
	return repo.Dataset(ctx)
}

// observe records the outcome of an engine operation.
func (s *Service) observe(ctx context.Context, op string, start time.Time, err error, fields ...logger.Field) {
	if err != nil {
		kind := "internal"
		switch {
		case errors.Is(err, model.ErrInvalidMetricKey):
			kind = "invalid_key"
		case errors.Is(err, repository.ErrNotLoaded):
			kind = "not_loaded"
		}
		metrics.RecordEngineError(op, kind)
		s.log().Debug(ctx, op+" failed", append(fields, logger.Error(err))...)
		return
	}
	metrics.RecordEngineOp(op, float64(time.Since(start).Microseconds())/1000)
	s.log().Debug(ctx, op, fields...)
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.logger
}

// Delta is one comparator line of a KPI card.
type Delta struct {
	Comparator model.Comparator `json:"comparator"`
	Label      string           `json:"label"`
	Value      float64          `json:"value"`
	Display    string           `json:"display"`
	Tone       model.Tone       `json:"tone"`
}

// KPICard is the overall value of one metric with its deltas.
type KPICard struct {
	Metric  model.Metric `json:"metric"`
	Title   string       `json:"title"`
	Value   float64      `json:"value"`
	Display string       `json:"display"`
	Deltas  []Delta      `json:"deltas"`
}

// Overview is the headline view of a wave.
type Overview struct {
	Period string    `json:"period"`
	Cards  []KPICard `json:"cards"`
}

// Overview returns the KPI cards in metric order.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	const op = "overview"
	start := time.Now()
	ds, err := s.dataset(ctx)
	if err != nil {
		s.observe(ctx, op, start, err)
		return Overview{}, err
	}

	labels := model.ComparisonLabels(ds.Period)
	out := Overview{Period: ds.Period, Cards: make([]KPICard, 0, len(ds.Overall))}
	for _, kpi := range ds.Overall {
		card := KPICard{
			Metric:  kpi.Metric,
			Title:   kpi.Metric.Title(),
			Value:   kpi.Value,
			Display: model.FormatPercent(kpi.Value),
		}
		for _, c := range []model.Comparator{model.VsTarget, model.VsPriorQuarter, model.VsPriorYear} {
			v := kpi.Field(c)
			card.Deltas = append(card.Deltas, Delta{
				Comparator: c,
				Label:      labels[c],
				Value:      v,
				Display:    model.FormatDelta(v),
				Tone:       model.ToneOf(v),
			})
		}
		out.Cards = append(out.Cards, card)
	}
	s.observe(ctx, op, start, nil)
	return out, nil
}

// Ranking is a ranked market list with the keys that produced it.
type Ranking struct {
	Metric     model.Metric          `json:"metric"`
	Comparator model.Comparator      `json:"comparator"`
	Label      string                `json:"label"`
	Rows       []engine.RankedMarket `json:"rows"`
}

// Rank ranks all markets by metric and comparator keys as sent by clients.
func (s *Service) Rank(ctx context.Context, metricKey, sortKey string) (Ranking, error) {
	const op = "rank_markets"
	start := time.Now()
	fields := []logger.Field{logger.String("metric", metricKey), logger.String("sort", sortKey)}

	metric, err := model.ParseMetric(metricKey)
	if err != nil {
		s.observe(ctx, op, start, err, fields...)
		return Ranking{}, err
	}
	comparator, err := model.ParseComparator(sortKey)
	if err != nil {
		s.observe(ctx, op, start, err, fields...)
		return Ranking{}, err
	}
	ds, err := s.dataset(ctx)
	if err != nil {
		s.observe(ctx, op, start, err, fields...)
		return Ranking{}, err
	}
	rows, err := engine.RankMarkets(ds, metric, comparator)
	s.observe(ctx, op, start, err, fields...)
	if err != nil {
		return Ranking{}, err
	}
	label := "Current Value"
	if l, ok := model.ComparisonLabels(ds.Period)[comparator]; ok {
		label = l
	}
	return Ranking{Metric: metric, Comparator: comparator, Label: label, Rows: rows}, nil
}

// QuadrantView holds every placement plus the markets grouped per quadrant.
type QuadrantView struct {
	Strategy   engine.MidpointStrategy                `json:"strategy"`
	Midpoints  engine.Midpoints                       `json:"midpoints"`
	Placements []engine.Placement                     `json:"placements"`
	Groups     map[engine.Quadrant][]model.MarketName `json:"groups"`
}

// Quadrants classifies every market with the configured midpoints.
func (s *Service) Quadrants(ctx context.Context) (QuadrantView, error) {
	const op = "classify_quadrants"
	start := time.Now()
	ds, err := s.dataset(ctx)
	if err != nil {
		s.observe(ctx, op, start, err)
		return QuadrantView{}, err
	}
	s.mu.RLock()
	mid, strategy := s.midpoints, s.strategy
	s.mu.RUnlock()

	placements, err := engine.Classify(ds, mid)
	s.observe(ctx, op, start, err)
	if err != nil {
		return QuadrantView{}, err
	}
	groups := make(map[engine.Quadrant][]model.MarketName, len(engine.Quadrants))
	for _, q := range engine.Quadrants {
		groups[q] = []model.MarketName{}
	}
	for _, p := range placements {
		groups[p.Quadrant] = append(groups[p.Quadrant], p.Market)
	}
	return QuadrantView{Strategy: strategy, Midpoints: mid, Placements: placements, Groups: groups}, nil
}

// Heatmap builds the heatmap for a view key as sent by clients.
func (s *Service) Heatmap(ctx context.Context, viewKey string) (engine.Heatmap, error) {
	const op = "build_heatmap"
	start := time.Now()
	view, err := model.ParseViewType(viewKey)
	if err != nil {
		s.observe(ctx, op, start, err, logger.String("view", viewKey))
		return engine.Heatmap{}, err
	}
	ds, err := s.dataset(ctx)
	if err != nil {
		s.observe(ctx, op, start, err)
		return engine.Heatmap{}, err
	}
	hm, err := engine.BuildHeatmap(ds, view)
	s.observe(ctx, op, start, err, logger.String("view", string(view)))
	return hm, err
}

// Series joins history and projections for a metric key.
func (s *Service) Series(ctx context.Context, metricKey string) ([]engine.SeriesPoint, error) {
	const op = "project_series"
	start := time.Now()
	metric, err := model.ParseMetric(metricKey)
	if err != nil {
		s.observe(ctx, op, start, err, logger.String("metric", metricKey))
		return nil, err
	}
	ds, err := s.dataset(ctx)
	if err != nil {
		s.observe(ctx, op, start, err)
		return nil, err
	}
	points, err := engine.ProjectSeries(ds, metric)
	s.observe(ctx, op, start, err, logger.String("metric", string(metric)))
	return points, err
}

// History returns the quarterly snapshots.
func (s *Service) History(ctx context.Context) ([]model.QuarterlySnapshot, error) {
	s.mu.RLock()
	repo := s.repo
	s.mu.RUnlock()
	if repo == nil {
		return nil, repository.ErrNotLoaded
	}
	return repo.QuarterlyHistory(ctx)
}

// AtRisk returns the curated at-risk entries.
func (s *Service) AtRisk(ctx context.Context) ([]model.AtRiskEntry, error) {
	s.mu.RLock()
	repo := s.repo
	s.mu.RUnlock()
	if repo == nil {
		return nil, repository.ErrNotLoaded
	}
	return repo.AtRiskEntries(ctx)
}

// Export writes the dashboard workbook to w.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	const op = "export"
	start := time.Now()
	ds, err := s.dataset(ctx)
	if err != nil {
		s.observe(ctx, op, start, err)
		return err
	}

	report := export.Report{Period: ds.Period, Overall: ds.Overall, Rankings: make(map[model.Metric][]engine.RankedMarket, len(model.Metrics))}
	for _, m := range model.Metrics {
		rows, err := engine.RankMarkets(ds, m, model.CurrentValue)
		if err != nil {
			s.observe(ctx, op, start, err)
			return err
		}
		report.Rankings[m] = rows
	}
	if report.Heatmap, err = engine.BuildHeatmap(ds, model.ViewCurrent); err != nil {
		s.observe(ctx, op, start, err)
		return err
	}
	s.mu.RLock()
	report.Midpoints = s.midpoints
	s.mu.RUnlock()
	if report.Placements, err = engine.Classify(ds, report.Midpoints); err != nil {
		s.observe(ctx, op, start, err)
		return err
	}

	err = export.Write(w, report)
	s.observe(ctx, op, start, err)
	if err == nil {
		metrics.RecordExport()
	}
	return err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"quadrantStrategy": string(s.strategy),
	}
	if s.started {
		ctx := context.Background()
		stats["performanceMidpoint"] = s.midpoints.Performance
		stats["growthMidpoint"] = s.midpoints.Growth
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
		if ds, err := s.repo.Dataset(ctx); err == nil {
			stats["period"] = ds.Period
			stats["markets"] = len(ds.Markets)
			stats["quarters"] = len(ds.History)
			stats["projectionPeriods"] = len(ds.Projections.Periods)
			stats["atRisk"] = len(ds.AtRisk)
		}
	}
	return stats
}
