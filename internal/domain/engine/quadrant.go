package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/brandhealth/internal/domain/model"
)

// Quadrant is a performance/growth classification bucket.
type Quadrant string

// Quadrants.
const (
	Leading           Quadrant = "Leading"
	GrowthOpportunity Quadrant = "GrowthOpportunity"
	StablePerformer   Quadrant = "StablePerformer"
	Underperforming   Quadrant = "Underperforming"
)

// Quadrants lists every quadrant.
var Quadrants = []Quadrant{Leading, GrowthOpportunity, StablePerformer, Underperforming}

// Midpoints split the performance and growth axes.
type Midpoints struct {
	Performance float64 `json:"performance"`
	Growth      float64 `json:"growth"`
}

// DefaultMidpoints are the fixed dashboard midpoints.
var DefaultMidpoints = Midpoints{Performance: 52.0, Growth: 1.5}

// MidpointStrategy decides where midpoints come from.
type MidpointStrategy string

// Midpoint strategies. Fixed reproduces the dashboard placement; mean and
// median recompute the midpoints from the markets being classified.
const (
	StrategyFixed  MidpointStrategy = "fixed"
	StrategyMean   MidpointStrategy = "mean"
	StrategyMedian MidpointStrategy = "median"
)

// ParseMidpointStrategy validates a strategy name. Empty means fixed.
func ParseMidpointStrategy(s string) (MidpointStrategy, error) {
	switch st := MidpointStrategy(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StrategyFixed, nil
	case StrategyFixed, StrategyMean, StrategyMedian:
		return st, nil
	}
	return "", fmt.Errorf("strategy %q: %w", s, ErrInvalidStrategy)
}

// Performance is the mean of awareness, consideration and intent.
func Performance(mk model.Market) float64 {
	return mean(mk.Awareness.Value, mk.Consideration.Value, mk.Intent.Value)
}

// Growth is the mean of the awareness, consideration and intent growth rates.
func Growth(mk model.Market) float64 {
	return mean(mk.Awareness.Growth, mk.Consideration.Growth, mk.Intent.Growth)
}

// ClassifyQuadrant places a market. A value equal to a midpoint counts as above.
func ClassifyQuadrant(mk model.Market, mid Midpoints) Quadrant {
	highPerf := Performance(mk) >= mid.Performance
	highGrowth := Growth(mk) >= mid.Growth
	switch {
	case highPerf && highGrowth:
		return Leading
	case highGrowth:
		return GrowthOpportunity
	case highPerf:
		return StablePerformer
	default:
		return Underperforming
	}
}

// ResolveMidpoints returns the midpoints a strategy yields for ds. fixed is
// returned unchanged for StrategyFixed.
func ResolveMidpoints(ds *model.Dataset, strategy MidpointStrategy, fixed Midpoints) (Midpoints, error) {
	const op = "engine.resolve_midpoints"
	if ds == nil {
		return Midpoints{}, fmt.Errorf("%s: %w", op, ErrNilDataset)
	}
	switch strategy {
	case StrategyFixed:
		return fixed, nil
	case StrategyMean, StrategyMedian:
	default:
		return Midpoints{}, fmt.Errorf("%s: strategy %q: %w", op, strategy, ErrInvalidStrategy)
	}
	if len(ds.Markets) == 0 {
		return fixed, nil
	}

	perf := make([]float64, len(ds.Markets))
	growth := make([]float64, len(ds.Markets))
	for i, mk := range ds.Markets {
		perf[i] = Performance(mk)
		growth[i] = Growth(mk)
	}
	if strategy == StrategyMean {
		return Midpoints{Performance: mean(perf...), Growth: mean(growth...)}, nil
	}
	return Midpoints{Performance: median(perf), Growth: median(growth)}, nil
}

// Placement is a classified market with the scores that placed it.
type Placement struct {
	Market      model.MarketName `json:"market"`
	Performance float64          `json:"performance"`
	Growth      float64          `json:"growth"`
	Quadrant    Quadrant         `json:"quadrant"`
}

// Classify places every market of ds, in dataset order.
func Classify(ds *model.Dataset, mid Midpoints) ([]Placement, error) {
	if ds == nil {
		return nil, fmt.Errorf("engine.classify: %w", ErrNilDataset)
	}
	out := make([]Placement, len(ds.Markets))
	for i, mk := range ds.Markets {
		out[i] = Placement{
			Market:      mk.Name,
			Performance: Performance(mk),
			Growth:      Growth(mk),
			Quadrant:    ClassifyQuadrant(mk, mid),
		}
	}
	return out, nil
}

func mean(vs ...float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
