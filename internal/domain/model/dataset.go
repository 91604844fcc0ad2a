package model

import (
	"fmt"
	"math"
)

// Bounds for percentage metrics.
const (
	minPercent = 0
	maxPercent = 100
)

// QuarterlySnapshot is the all-markets aggregate for one reporting period.
type QuarterlySnapshot struct {
	Quarter       string  `json:"quarter"`
	Awareness     float64 `json:"awareness"`
	Familiarity   float64 `json:"familiarity"`
	Consideration float64 `json:"consideration"`
	Intent        float64 `json:"intent"`
}

// Value returns the aggregate for m.
func (q QuarterlySnapshot) Value(m Metric) float64 {
	switch m {
	case Awareness:
		return q.Awareness
	case Familiarity:
		return q.Familiarity
	case Consideration:
		return q.Consideration
	case Intent:
		return q.Intent
	}
	return 0
}

// SetValue replaces the aggregate for m.
func (q *QuarterlySnapshot) SetValue(m Metric, v float64) {
	switch m {
	case Awareness:
		q.Awareness = v
	case Familiarity:
		q.Familiarity = v
	case Consideration:
		q.Consideration = v
	case Intent:
		q.Intent = v
	}
}

// OverallKPI is one metric across all markets with its comparator deltas.
type OverallKPI struct {
	Metric       Metric  `json:"metric"`
	Value        float64 `json:"value"`
	VsTarget     float64 `json:"vs_target"`
	VsQ4         float64 `json:"vs_q4"`
	VsQ1LastYear float64 `json:"vs_q1_ly"`
}

// Field returns the number a comparator selects.
func (o OverallKPI) Field(c Comparator) float64 {
	return MetricValues{Value: o.Value, VsTarget: o.VsTarget, VsQ4: o.VsQ4, VsQ1LastYear: o.VsQ1LastYear}.Field(c)
}

// ProjectionSeries holds projected values per metric for future periods.
// Every metric slice has one value per entry in Periods.
type ProjectionSeries struct {
	Periods       []string  `json:"periods"`
	Awareness     []float64 `json:"awareness"`
	Familiarity   []float64 `json:"familiarity"`
	Consideration []float64 `json:"consideration"`
	Intent        []float64 `json:"intent"`
}

// Values returns the projected values for m.
func (p ProjectionSeries) Values(m Metric) []float64 {
	switch m {
	case Awareness:
		return p.Awareness
	case Familiarity:
		return p.Familiarity
	case Consideration:
		return p.Consideration
	case Intent:
		return p.Intent
	}
	return nil
}

func (p ProjectionSeries) clone() ProjectionSeries {
	return ProjectionSeries{
		Periods:       cloneSlice(p.Periods),
		Awareness:     cloneSlice(p.Awareness),
		Familiarity:   cloneSlice(p.Familiarity),
		Consideration: cloneSlice(p.Consideration),
		Intent:        cloneSlice(p.Intent),
	}
}

// AtRiskEntry is a manually curated warning about one market metric.
type AtRiskEntry struct {
	Market   MarketName `json:"market"`
	Metric   Metric     `json:"metric"`
	Value    float64    `json:"value"`
	Target   float64    `json:"target"`
	VsTarget float64    `json:"vs_target"`
	Issue    string     `json:"issue"`
}

// Dataset is the complete, immutable input of one dashboard wave.
type Dataset struct {
	// Period labels the current wave, e.g. "Q1 2025".
	Period      string              `json:"period"`
	Overall     []OverallKPI        `json:"overall"`
	Markets     []Market            `json:"markets"`
	History     []QuarterlySnapshot `json:"history"`
	Projections ProjectionSeries    `json:"projections"`
	AtRisk      []AtRiskEntry       `json:"at_risk"`
}

// OverallFor returns the overall KPI for m.
func (d *Dataset) OverallFor(m Metric) (OverallKPI, bool) {
	for _, o := range d.Overall {
		if o.Metric == m {
			return o, true
		}
	}
	return OverallKPI{}, false
}

// Market returns the market with the given name.
func (d *Dataset) Market(name MarketName) (Market, bool) {
	for _, mk := range d.Markets {
		if mk.Name == name {
			return mk, true
		}
	}
	return Market{}, false
}

// Clone returns a deep copy so callers cannot mutate the original.
func (d *Dataset) Clone() *Dataset {
	return &Dataset{
		Period:      d.Period,
		Overall:     cloneSlice(d.Overall),
		Markets:     cloneSlice(d.Markets),
		History:     cloneSlice(d.History),
		Projections: d.Projections.clone(),
		AtRisk:      cloneSlice(d.AtRisk),
	}
}

// Validate checks the structural invariants of a dataset.
func (d *Dataset) Validate() error {
	if len(d.Overall) != len(Metrics) {
		return fmt.Errorf("overall has %d metrics, want %d: %w", len(d.Overall), len(Metrics), ErrInvalidDataset)
	}
	for i, o := range d.Overall {
		if o.Metric != Metrics[i] {
			return fmt.Errorf("overall[%d] is %q, want %q: %w", i, o.Metric, Metrics[i], ErrInvalidDataset)
		}
		if err := checkPercent(string(o.Metric), o.Value); err != nil {
			return err
		}
	}

	if len(d.Markets) == 0 {
		return fmt.Errorf("no markets: %w", ErrInvalidDataset)
	}
	seenMarket := make(map[MarketName]bool, len(d.Markets))
	for _, mk := range d.Markets {
		if _, ok := ParseMarketName(string(mk.Name)); !ok {
			return fmt.Errorf("unknown market %q: %w", mk.Name, ErrInvalidDataset)
		}
		if seenMarket[mk.Name] {
			return fmt.Errorf("duplicate market %q: %w", mk.Name, ErrInvalidDataset)
		}
		seenMarket[mk.Name] = true
		for _, m := range Metrics {
			v := mk.Values(m)
			if err := checkPercent(fmt.Sprintf("%s.%s", mk.Name, m), v.Value); err != nil {
				return err
			}
			if err := checkPercent(fmt.Sprintf("%s.%s target", mk.Name, m), v.Target); err != nil {
				return err
			}
		}
	}

	labels := make(map[string]bool, len(d.History)+len(d.Projections.Periods))
	for _, q := range d.History {
		if q.Quarter == "" {
			return fmt.Errorf("history entry without quarter label: %w", ErrInvalidDataset)
		}
		if labels[q.Quarter] {
			return fmt.Errorf("duplicate quarter %q: %w", q.Quarter, ErrInvalidDataset)
		}
		labels[q.Quarter] = true
		for _, m := range Metrics {
			if err := checkPercent(fmt.Sprintf("%s.%s", q.Quarter, m), q.Value(m)); err != nil {
				return err
			}
		}
	}
	for _, p := range d.Projections.Periods {
		if labels[p] {
			return fmt.Errorf("projection period %q overlaps history: %w", p, ErrInvalidDataset)
		}
		labels[p] = true
	}
	for _, m := range Metrics {
		if n := len(d.Projections.Values(m)); n != len(d.Projections.Periods) {
			return fmt.Errorf("projection %s has %d values for %d periods: %w", m, n, len(d.Projections.Periods), ErrInvalidDataset)
		}
	}

	for _, a := range d.AtRisk {
		if !seenMarket[a.Market] {
			return fmt.Errorf("at-risk entry for unknown market %q: %w", a.Market, ErrInvalidDataset)
		}
		if !a.Metric.Valid() {
			return fmt.Errorf("at-risk entry with metric %q: %w", a.Metric, ErrInvalidDataset)
		}
	}
	return nil
}

func checkPercent(field string, v float64) error {
	if math.IsNaN(v) || v < minPercent || v > maxPercent {
		return fmt.Errorf("%s = %v outside [0,100]: %w", field, v, ErrInvalidDataset)
	}
	return nil
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
