package probe

import "os"

// ShowHelp prints usage information for the probe.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Brand Health Probe
==================

Checks a running brand health service for internally consistent views.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -timeout duration
        HTTP request timeout (default 10s)
  -workers int
        Number of concurrent ranking fetchers (default 4)
  -verbose
        Log every passing check
  -help
        Show this help message

Checks:
  every metric/sort ranking is a descending permutation of the markets
  every market sits in exactly one quadrant that matches its scores
  every heatmap cell of every view has a level between 1 and 5
  every series has unique period labels
  the export workbook carries the expected sheets
`)
}
