package model

import "strings"

// MarketName identifies one of the fixed survey markets.
type MarketName string

// Tracked markets.
const (
	UK      MarketName = "UK"
	Germany MarketName = "Germany"
	US      MarketName = "US"
	India   MarketName = "India"
	China   MarketName = "China"
	Russia  MarketName = "Russia"
	France  MarketName = "France"
	KSA     MarketName = "KSA"
	Italy   MarketName = "Italy"
	Kuwait  MarketName = "Kuwait"
)

// Markets is the enumeration order used when a source does not impose one.
var Markets = []MarketName{UK, Germany, US, India, China, Russia, France, KSA, Italy, Kuwait}

// ParseMarketName resolves a market name case-insensitively.
func ParseMarketName(s string) (MarketName, bool) {
	key := strings.TrimSpace(s)
	for _, m := range Markets {
		if strings.EqualFold(key, string(m)) {
			return m, true
		}
	}
	return "", false
}

// MetricValues holds one metric of one market for the current wave.
type MetricValues struct {
	Value        float64 `json:"value"`
	Target       float64 `json:"target"`
	VsTarget     float64 `json:"vs_target"`
	VsQ4         float64 `json:"vs_q4"`
	VsQ1LastYear float64 `json:"vs_q1_ly"`
	// Growth is the year-over-year growth rate used by quadrant classification.
	Growth float64 `json:"growth"`
}

// Field returns the number a comparator selects. Unknown comparators read as 0.
func (v MetricValues) Field(c Comparator) float64 {
	switch c {
	case CurrentValue:
		return v.Value
	case VsTarget:
		return v.VsTarget
	case VsPriorQuarter:
		return v.VsQ4
	case VsPriorYear:
		return v.VsQ1LastYear
	}
	return 0
}

// Market carries all four metrics for one market. A zero MetricValues stands
// in for a metric the source did not provide.
type Market struct {
	Name          MarketName   `json:"name"`
	Awareness     MetricValues `json:"awareness"`
	Familiarity   MetricValues `json:"familiarity"`
	Consideration MetricValues `json:"consideration"`
	Intent        MetricValues `json:"intent"`
}

// Values returns the metric block for m.
func (mk Market) Values(m Metric) MetricValues {
	switch m {
	case Awareness:
		return mk.Awareness
	case Familiarity:
		return mk.Familiarity
	case Consideration:
		return mk.Consideration
	case Intent:
		return mk.Intent
	}
	return MetricValues{}
}

// SetValues replaces the metric block for m.
func (mk *Market) SetValues(m Metric, v MetricValues) {
	switch m {
	case Awareness:
		mk.Awareness = v
	case Familiarity:
		mk.Familiarity = v
	case Consideration:
		mk.Consideration = v
	case Intent:
		mk.Intent = v
	}
}
