package repository

import (
	"fmt"

	"github.com/okian/brandhealth/internal/domain/model"
)

// builder assembles a dataset from records in any order. Everything a source
// leaves out reads as 0; markets and quarters keep first-appearance order.
// Each overall metric, market metric, quarter metric and projection metric
// may be set once; a repeat is malformed.
type builder struct {
	seen     map[recordKey]struct{}
	period   string
	overall  map[model.Metric]model.OverallKPI
	markets  []model.Market
	marketAt map[model.MarketName]int
	quarters []model.QuarterlySnapshot
	quarter  map[string]int
	periods  []string
	proj     map[string]map[model.Metric]float64
	atRisk   []model.AtRiskEntry
}

type recordKey struct {
	kind    string
	subject string
	metric  model.Metric
}

func newBuilder() *builder {
	return &builder{
		seen:     make(map[recordKey]struct{}),
		overall:  make(map[model.Metric]model.OverallKPI, len(model.Metrics)),
		marketAt: make(map[model.MarketName]int, len(model.Markets)),
		quarter:  make(map[string]int),
		proj:     make(map[string]map[model.Metric]float64),
	}
}

func parseMarket(s string) (model.MarketName, error) {
	name, ok := model.ParseMarketName(s)
	if !ok {
		return "", fmt.Errorf("market %q: %w", s, ErrMalformedRecord)
	}
	return name, nil
}

func parseMetric(s string) (model.Metric, error) {
	m, err := model.ParseMetric(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	return m, nil
}

func (b *builder) setPeriod(p string) { b.period = p }

// claim records key and fails if it was set before.
func (b *builder) claim(kind, subject string, m model.Metric) error {
	k := recordKey{kind: kind, subject: subject, metric: m}
	if _, dup := b.seen[k]; dup {
		if subject == "" {
			return fmt.Errorf("duplicate %s %s: %w", kind, m, ErrMalformedRecord)
		}
		return fmt.Errorf("duplicate %s %q %s: %w", kind, subject, m, ErrMalformedRecord)
	}
	b.seen[k] = struct{}{}
	return nil
}

func (b *builder) setOverall(metric string, kpi model.OverallKPI) error {
	m, err := parseMetric(metric)
	if err != nil {
		return err
	}
	if err := b.claim(kindOverall, "", m); err != nil {
		return err
	}
	kpi.Metric = m
	b.overall[m] = kpi
	return nil
}

func (b *builder) setMarketMetric(market, metric string, v model.MetricValues) error {
	name, err := parseMarket(market)
	if err != nil {
		return err
	}
	m, err := parseMetric(metric)
	if err != nil {
		return err
	}
	if err := b.claim(kindMarket, string(name), m); err != nil {
		return err
	}
	i, ok := b.marketAt[name]
	if !ok {
		i = len(b.markets)
		b.marketAt[name] = i
		b.markets = append(b.markets, model.Market{Name: name})
	}
	b.markets[i].SetValues(m, v)
	return nil
}

func (b *builder) setQuarterValue(label, metric string, v float64) error {
	if label == "" {
		return fmt.Errorf("quarter without label: %w", ErrMalformedRecord)
	}
	m, err := parseMetric(metric)
	if err != nil {
		return err
	}
	if err := b.claim(kindQuarter, label, m); err != nil {
		return err
	}
	i, ok := b.quarter[label]
	if !ok {
		i = len(b.quarters)
		b.quarter[label] = i
		b.quarters = append(b.quarters, model.QuarterlySnapshot{Quarter: label})
	}
	b.quarters[i].SetValue(m, v)
	return nil
}

func (b *builder) setProjection(period, metric string, v float64) error {
	if period == "" {
		return fmt.Errorf("projection without period: %w", ErrMalformedRecord)
	}
	m, err := parseMetric(metric)
	if err != nil {
		return err
	}
	if err := b.claim(kindProjection, period, m); err != nil {
		return err
	}
	values, ok := b.proj[period]
	if !ok {
		values = make(map[model.Metric]float64, len(model.Metrics))
		b.proj[period] = values
		b.periods = append(b.periods, period)
	}
	values[m] = v
	return nil
}

func (b *builder) addAtRisk(market, metric string, e model.AtRiskEntry) error {
	name, err := parseMarket(market)
	if err != nil {
		return err
	}
	m, err := parseMetric(metric)
	if err != nil {
		return err
	}
	e.Market, e.Metric = name, m
	b.atRisk = append(b.atRisk, e)
	return nil
}

func (b *builder) build() *model.Dataset {
	ds := &model.Dataset{
		Period:  b.period,
		Overall: make([]model.OverallKPI, len(model.Metrics)),
		Markets: b.markets,
		History: b.quarters,
		AtRisk:  b.atRisk,
	}
	for i, m := range model.Metrics {
		kpi := b.overall[m]
		kpi.Metric = m
		ds.Overall[i] = kpi
	}

	p := model.ProjectionSeries{Periods: b.periods}
	for _, m := range model.Metrics {
		series := make([]float64, len(b.periods))
		for i, period := range b.periods {
			series[i] = b.proj[period][m]
		}
		switch m {
		case model.Awareness:
			p.Awareness = series
		case model.Familiarity:
			p.Familiarity = series
		case model.Consideration:
			p.Consideration = series
		case model.Intent:
			p.Intent = series
		}
	}
	ds.Projections = p
	return ds
}
