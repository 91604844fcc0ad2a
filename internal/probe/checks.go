package probe

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/okian/brandhealth/internal/adapters/export"
	service "github.com/okian/brandhealth/internal/app"
	"github.com/okian/brandhealth/internal/domain/engine"
	"github.com/okian/brandhealth/internal/domain/model"
	"github.com/okian/brandhealth/pkg/logger"
)

const workerChannelMultiplier = 2

type rankQuery struct {
	metric     model.Metric
	comparator model.Comparator
}

// checkRankings fetches every metric × comparator ranking concurrently and
// checks each is a descending permutation of the markets.
func checkRankings(ctx context.Context, client *HTTPClient, cfg *Config, report *Report) {
	queries := make([]rankQuery, 0, len(model.Metrics)*len(model.Comparators))
	for _, m := range model.Metrics {
		for _, c := range model.Comparators {
			queries = append(queries, rankQuery{metric: m, comparator: c})
		}
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	rankings := make([]service.Ranking, len(queries))
	errs := make([]error, len(queries))
	queryChan := make(chan int, workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range queryChan {
				q := queries[index]
				path := "/markets/rank?" + url.Values{
					"metric": {string(q.metric)},
					"sort":   {string(q.comparator)},
				}.Encode()
				errs[index] = client.GetJSON(ctx, path, &rankings[index])
			}
		}()
	}

	go func() {
		defer close(queryChan)
		for i := range queries {
			select {
			case <-ctx.Done():
				return
			case queryChan <- i:
			}
		}
	}()
	wg.Wait()

	for i, q := range queries {
		name := fmt.Sprintf("ranking %s/%s", q.metric, q.comparator)
		if errs[i] != nil {
			report.fail(name, errs[i].Error())
			continue
		}
		if rankings[i].Metric == "" {
			report.fail(name, "not fetched")
			continue
		}
		if detail := rankingProblem(rankings[i].Rows); detail != "" {
			report.fail(name, detail)
			continue
		}
		report.RankingsChecked++
		if cfg.Verbose {
			cfg.log().Info(ctx, "ranking ok",
				logger.String("metric", string(q.metric)),
				logger.String("sort", string(q.comparator)),
				logger.String("top", string(rankings[i].Rows[0].Market)))
		}
	}
}

func rankingProblem(rows []engine.RankedMarket) string {
	if len(rows) != len(model.Markets) {
		return fmt.Sprintf("%d rows, want %d", len(rows), len(model.Markets))
	}
	seen := make(map[model.MarketName]bool, len(rows))
	for i, row := range rows {
		if row.Rank != i+1 {
			return fmt.Sprintf("row %d has rank %d", i, row.Rank)
		}
		if seen[row.Market] {
			return fmt.Sprintf("market %s listed twice", row.Market)
		}
		seen[row.Market] = true
		if i > 0 && row.Value > rows[i-1].Value {
			return fmt.Sprintf("%s (%.1f) ranked below %s (%.1f)", row.Market, row.Value, rows[i-1].Market, rows[i-1].Value)
		}
	}
	return ""
}

// checkQuadrants verifies every market sits in exactly one quadrant and that
// the quadrant agrees with the reported scores and midpoints.
func checkQuadrants(ctx context.Context, client *HTTPClient, report *Report) {
	const name = "quadrants"
	var view service.QuadrantView
	if err := client.GetJSON(ctx, "/markets/quadrants", &view); err != nil {
		report.fail(name, err.Error())
		return
	}

	membership := make(map[model.MarketName]int)
	for _, markets := range view.Groups {
		for _, m := range markets {
			membership[m]++
		}
	}
	for _, p := range view.Placements {
		if membership[p.Market] != 1 {
			report.fail(name, fmt.Sprintf("%s appears in %d groups", p.Market, membership[p.Market]))
			continue
		}
		if want := expectedQuadrant(p, view.Midpoints); p.Quadrant != want {
			report.fail(name, fmt.Sprintf("%s placed %s, scores say %s", p.Market, p.Quadrant, want))
			continue
		}
		report.MarketsPlaced++
	}
	if len(view.Placements) != len(membership) {
		report.fail(name, fmt.Sprintf("%d placements but %d grouped markets", len(view.Placements), len(membership)))
	}
}

func expectedQuadrant(p engine.Placement, mid engine.Midpoints) engine.Quadrant {
	highPerf := p.Performance >= mid.Performance
	highGrowth := p.Growth >= mid.Growth
	switch {
	case highPerf && highGrowth:
		return engine.Leading
	case highGrowth:
		return engine.GrowthOpportunity
	case highPerf:
		return engine.StablePerformer
	default:
		return engine.Underperforming
	}
}

// checkHeatmaps verifies every cell of every view carries a level in range.
func checkHeatmaps(ctx context.Context, client *HTTPClient, report *Report) {
	for _, view := range model.ViewTypes {
		name := "heatmap " + string(view)
		var hm engine.Heatmap
		if err := client.GetJSON(ctx, "/markets/heatmap?view="+url.QueryEscape(string(view)), &hm); err != nil {
			report.fail(name, err.Error())
			continue
		}
		for _, row := range hm.Rows {
			for _, cell := range row.Cells {
				if cell.Level < engine.MinHeatLevel || cell.Level > engine.MaxHeatLevel {
					report.fail(name, fmt.Sprintf("%s %s level %d", row.Market, cell.Metric, cell.Level))
					continue
				}
				report.HeatCells++
			}
		}
	}
}

// checkSeries verifies period labels are unique and each point carries
// exactly one of its historical and projected values.
func checkSeries(ctx context.Context, client *HTTPClient, report *Report) {
	for _, m := range model.Metrics {
		name := "series " + string(m)
		var points []engine.SeriesPoint
		if err := client.GetJSON(ctx, "/series?metric="+string(m), &points); err != nil {
			report.fail(name, err.Error())
			continue
		}
		labels := make(map[string]bool, len(points))
		for _, p := range points {
			if labels[p.Period] {
				report.fail(name, "duplicate period "+p.Period)
				continue
			}
			labels[p.Period] = true
			if (p.Historical == nil) == (p.Projected == nil) {
				report.fail(name, "period "+p.Period+" must have exactly one value")
				continue
			}
			report.SeriesPoints++
		}
	}
}

// checkExport downloads the workbook and verifies its sheets.
func checkExport(ctx context.Context, client *HTTPClient, report *Report) {
	const name = "export"
	body, _, err := client.Get(ctx, "/export.xlsx")
	if err != nil {
		report.fail(name, err.Error())
		return
	}
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		report.fail(name, err.Error())
		return
	}
	defer f.Close()

	want := []string{export.SheetOverview, export.SheetRanking, export.SheetHeatmap, export.SheetQuadrants}
	got := f.GetSheetList()
	if len(got) != len(want) {
		report.fail(name, fmt.Sprintf("sheets %v, want %v", got, want))
		return
	}
	for i := range want {
		if got[i] != want[i] {
			report.fail(name, fmt.Sprintf("sheet %d is %q, want %q", i, got[i], want[i]))
			return
		}
	}
	report.ExportSheets = len(got)
}
