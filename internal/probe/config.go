package probe

import (
	"errors"
	"time"

	"github.com/okian/brandhealth/pkg/logger"
)

// ErrChecksFailed is returned by Run when any dashboard check fails.
var ErrChecksFailed = errors.New("dashboard checks failed")

// Config holds configuration for a probe run.
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	Workers int           // Number of concurrent ranking fetchers
	Verbose bool          // Log every passing check
	Logger  logger.Logger // Defaults to the global logger
}

func (c *Config) log() logger.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logger.Get()
}

// Failure is one check that did not hold.
type Failure struct {
	Check  string `json:"check"`
	Detail string `json:"detail"`
}

// Report summarises a probe run.
type Report struct {
	RankingsChecked int
	MarketsPlaced   int
	HeatCells       int
	SeriesPoints    int
	ExportSheets    int
	Failures        []Failure
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// OK reports whether every check passed.
func (r *Report) OK() bool { return len(r.Failures) == 0 }

func (r *Report) fail(check, detail string) {
	r.Failures = append(r.Failures, Failure{Check: check, Detail: detail})
}
