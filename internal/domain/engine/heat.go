package engine

import (
	"fmt"

	"github.com/okian/brandhealth/internal/domain/model"
)

// Heat levels.
const (
	MinHeatLevel = 1
	MaxHeatLevel = 5
)

// HeatLevel buckets a value for a heatmap view. The current view uses five
// buckets; the delta views paint every negative value at level 1 and split the
// rest into three buckets.
func HeatLevel(value float64, view model.ViewType) (int, error) {
	switch view {
	case model.ViewCurrent:
		switch {
		case value >= 80:
			return 5, nil
		case value >= 60:
			return 4, nil
		case value >= 40:
			return 3, nil
		case value >= 20:
			return 2, nil
		default:
			return 1, nil
		}
	case model.ViewVsTarget, model.ViewVsQ4:
		return deltaLevel(value, 2, 0.5), nil
	case model.ViewVsQ1LastYear:
		return deltaLevel(value, 5, 2), nil
	}
	return 0, fmt.Errorf("engine.heat_level: view %q: %w", view, model.ErrInvalidMetricKey)
}

func deltaLevel(value, top, high float64) int {
	switch {
	case value < 0:
		return 1
	case value >= top:
		return 5
	case value >= high:
		return 4
	default:
		return 3
	}
}

// HeatCell is one market × metric cell.
type HeatCell struct {
	Metric model.Metric `json:"metric"`
	Value  float64      `json:"value"`
	Level  int          `json:"level"`
}

// HeatRow holds the cells of one market in metric order.
type HeatRow struct {
	Market model.MarketName `json:"market"`
	Cells  []HeatCell       `json:"cells"`
}

// Heatmap is the markets × metrics grid for one view.
type Heatmap struct {
	View    model.ViewType `json:"view"`
	Metrics []model.Metric `json:"metrics"`
	Rows    []HeatRow      `json:"rows"`
}

// BuildHeatmap buckets every market metric of ds for view.
func BuildHeatmap(ds *model.Dataset, view model.ViewType) (Heatmap, error) {
	const op = "engine.build_heatmap"
	if ds == nil {
		return Heatmap{}, fmt.Errorf("%s: %w", op, ErrNilDataset)
	}
	if !view.Valid() {
		return Heatmap{}, fmt.Errorf("%s: view %q: %w", op, view, model.ErrInvalidMetricKey)
	}
	comparator := view.Comparator()
	hm := Heatmap{
		View:    view,
		Metrics: append([]model.Metric(nil), model.Metrics...),
		Rows:    make([]HeatRow, 0, len(ds.Markets)),
	}
	for _, mk := range ds.Markets {
		row := HeatRow{Market: mk.Name, Cells: make([]HeatCell, 0, len(model.Metrics))}
		for _, m := range model.Metrics {
			v := mk.Values(m).Field(comparator)
			level, err := HeatLevel(v, view)
			if err != nil {
				return Heatmap{}, err
			}
			row.Cells = append(row.Cells, HeatCell{Metric: m, Value: v, Level: level})
		}
		hm.Rows = append(hm.Rows, row)
	}
	return hm, nil
}
