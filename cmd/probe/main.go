package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/brandhealth/internal/probe"
	"github.com/okian/brandhealth/pkg/logger"
)

// Default configuration constants.
const (
	defaultTimeout      = 10 * time.Second
	defaultWorkers      = 4
	defaultProbeTimeout = 2 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		workers = flag.Int("workers", defaultWorkers, "Number of concurrent ranking fetchers")
		verbose = flag.Bool("verbose", false, "Log every passing check")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()

	cfg := &probe.Config{
		BaseURL: *baseURL,
		Timeout: *timeout,
		Workers: *workers,
		Verbose: *verbose,
	}
	if _, err := probe.Run(ctx, cfg); err != nil {
		_, _ = os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
