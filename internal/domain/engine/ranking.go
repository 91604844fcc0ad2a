// Package engine derives ranked, classified and bucketed views from a
// loaded dataset. Every function is pure: the dataset is read, never mutated.
package engine

import (
	"fmt"
	"sort"

	"github.com/okian/brandhealth/internal/domain/model"
)

// RankedMarket is one row of a market ranking. Tables and cards render the
// same rows so their order can never diverge.
type RankedMarket struct {
	Rank   int                `json:"rank"`
	Market model.MarketName   `json:"market"`
	Value  float64            `json:"value"`
	Values model.MetricValues `json:"values"`
}

// RankMarkets orders all markets descending by the field the comparator
// selects for metric. Ties keep dataset order.
func RankMarkets(ds *model.Dataset, metric model.Metric, comparator model.Comparator) ([]RankedMarket, error) {
	const op = "engine.rank_markets"
	if ds == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNilDataset)
	}
	if !metric.Valid() {
		return nil, fmt.Errorf("%s: metric %q: %w", op, metric, model.ErrInvalidMetricKey)
	}
	if !comparator.Valid() {
		return nil, fmt.Errorf("%s: comparator %q: %w", op, comparator, model.ErrInvalidMetricKey)
	}

	rows := make([]RankedMarket, len(ds.Markets))
	for i, mk := range ds.Markets {
		v := mk.Values(metric)
		rows[i] = RankedMarket{Market: mk.Name, Value: v.Field(comparator), Values: v}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Value > rows[j].Value })
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}
