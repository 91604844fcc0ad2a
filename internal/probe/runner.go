package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/brandhealth/pkg/logger"
)

// Run executes every dashboard check against a running service. It returns
// ErrChecksFailed alongside the report when any check fails.
func Run(ctx context.Context, cfg *Config) (*Report, error) {
	report := &Report{StartTime: time.Now()}
	log := cfg.log()

	log.Info(ctx, "starting brand health probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("timeout", cfg.Timeout.String()),
		logger.Int("workers", cfg.Workers),
		logger.Bool("verbose", cfg.Verbose))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := checkServiceHealth(ctx, log, client); err != nil {
		return report, fmt.Errorf("service health check failed: %w", err)
	}

	checkRankings(ctx, client, cfg, report)
	checkQuadrants(ctx, client, report)
	checkHeatmaps(ctx, client, report)
	checkSeries(ctx, client, report)
	checkExport(ctx, client, report)

	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)
	displayFinalStats(ctx, log, report)

	if !report.OK() {
		return report, fmt.Errorf("%w: %d failures", ErrChecksFailed, len(report.Failures))
	}
	log.Info(ctx, "probe completed successfully")
	return report, nil
}

func checkServiceHealth(ctx context.Context, log logger.Logger, client *HTTPClient) error {
	log.Info(ctx, "checking service health")
	if _, _, err := client.Get(ctx, "/healthz"); err != nil {
		return err
	}
	log.Info(ctx, "service is healthy")
	return nil
}

func displayFinalStats(ctx context.Context, log logger.Logger, report *Report) {
	for _, f := range report.Failures {
		log.Error(ctx, "check failed",
			logger.String("check", f.Check),
			logger.String("detail", f.Detail))
	}
	log.Info(ctx, "final statistics",
		logger.Int("rankingsChecked", report.RankingsChecked),
		logger.Int("marketsPlaced", report.MarketsPlaced),
		logger.Int("heatCells", report.HeatCells),
		logger.Int("seriesPoints", report.SeriesPoints),
		logger.Int("exportSheets", report.ExportSheets),
		logger.Int("failures", len(report.Failures)),
		logger.String("duration", report.Duration.String()))
}
