package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/lightshow/internal/showgen"
)

// Default configuration constants.
const (
	defaultBeats   = 64
	defaultDensity = 2
	defaultSeed    = 1
	defaultWorkers = 4
	defaultTimeout = 10 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		baseURL   = flag.String("url", "", "Base URL of the service; empty only writes the beatmap")
		beats     = flag.Float64("beats", defaultBeats, "Show length in beats")
		density   = flag.Int("density", defaultDensity, "Lighting events per beat")
		seed      = flag.Int64("seed", defaultSeed, "Random seed")
		gradients = flag.Bool("gradients", false, "Emit explicit colors and gradients")
		lead      = flag.Float64("lead", showgen.DefaultLead, "Beats between the service clock and the first event")
		workers   = flag.Int("workers", defaultWorkers, "Number of concurrent posters")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		output    = flag.String("output", "", "Beatmap output file")
		verify    = flag.Duration("verify", 0, "Wait for every accepted event to dispatch")
		logFile   = flag.String("log", "", "Also write logs to this file")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		showgen.ShowHelp()
		return 0
	}
	if *baseURL == "" && *output == "" {
		os.Stderr.WriteString("nothing to do: set -url, -output or both\n")
		return 2
	}

	if err := showgen.SetupLogging(*logFile, *verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &showgen.Config{
		BaseURL:   *baseURL,
		Beats:     *beats,
		Density:   *density,
		Seed:      *seed,
		Gradients: *gradients,
		Lead:      *lead,
		Workers:   *workers,
		Timeout:   *timeout,
		Output:    *output,
		Verify:    *verify,
		Verbose:   *verbose,
	}
	stats, err := showgen.Run(ctx, cfg)
	if err != nil {
		os.Stderr.WriteString("Show generation failed: " + err.Error() + "\n")
		return 1
	}
	if stats.EventsFailed > 0 {
		return 1
	}
	return 0
}
