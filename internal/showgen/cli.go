package showgen

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/okian/lightshow/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging writes structured and progress logs to stdout, and also to
// logFile when it is set.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}

	level := "info"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(logger.WithWriter(w), logger.WithLevel(level)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return nil
}

// ShowHelp prints usage information for the show generator.
func ShowHelp() {
	os.Stdout.WriteString(`Light Show Generator
====================

Generates a deterministic synthetic beatmap and optionally plays it into a
running light show service.

Usage:
  go run ./cmd/showgen [options]

Options:
  -url string
        Base URL of the service; empty only writes the beatmap
  -beats float
        Show length in beats (default 64)
  -density int
        Lighting events per beat (default 2)
  -seed int
        Random seed; the same seed always yields the same show (default 1)
  -gradients
        Emit explicit colors and gradients in custom data
  -lead float
        Beats between the service clock and the first posted event (default 8)
  -workers int
        Number of concurrent posters (default 4)
  -timeout duration
        HTTP request timeout (default 10s)
  -output string
        Beatmap output file
  -verify duration
        Wait this long for the service to dispatch every accepted event
  -log string
        Also write logs to this file
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Write a 128 beat show
  go run ./cmd/showgen -beats 128 -output shows/Expert.dat

  # Play a show with gradients into a local service and wait for it
  go run ./cmd/showgen -url http://localhost:9080 -gradients -verify 1m
`)
}
