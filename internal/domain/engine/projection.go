package engine

import (
	"fmt"

	"github.com/okian/brandhealth/internal/domain/model"
)

// SeriesPoint is one label on the combined trend axis. Exactly one of
// Historical and Projected is set.
type SeriesPoint struct {
	Period     string   `json:"period"`
	Historical *float64 `json:"historical"`
	Projected  *float64 `json:"projected"`
}

// ProjectSeries joins the quarterly history of metric with its projections
// on one axis: history first, projections after.
func ProjectSeries(ds *model.Dataset, metric model.Metric) ([]SeriesPoint, error) {
	const op = "engine.project_series"
	if ds == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNilDataset)
	}
	if !metric.Valid() {
		return nil, fmt.Errorf("%s: metric %q: %w", op, metric, model.ErrInvalidMetricKey)
	}

	projected := ds.Projections.Values(metric)
	out := make([]SeriesPoint, 0, len(ds.History)+len(ds.Projections.Periods))
	for _, q := range ds.History {
		v := q.Value(metric)
		out = append(out, SeriesPoint{Period: q.Quarter, Historical: &v})
	}
	for i, period := range ds.Projections.Periods {
		var v float64
		if i < len(projected) {
			v = projected[i]
		}
		out = append(out, SeriesPoint{Period: period, Projected: &v})
	}
	return out, nil
}
