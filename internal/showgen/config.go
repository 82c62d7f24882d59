// Package showgen generates deterministic synthetic beatmaps and plays
// them into a running light show service.
package showgen

import "time"

// Config holds configuration for a generation run.
type Config struct {
	BaseURL   string        // service to post to; empty only writes the beatmap
	Beats     float64       // show length in beats
	Density   int           // lighting events per beat
	Seed      int64         // same seed, same show
	Gradients bool          // emit gradient and explicit color custom data
	Lead      float64       // beats between the service's clock and the first live event
	Workers   int           // concurrent posters
	Timeout   time.Duration // HTTP request timeout
	Output    string        // beatmap file; empty skips writing
	Verify    time.Duration // how long to wait for dispatch; zero skips
	Verbose   bool
}

// Stats holds run statistics.
type Stats struct {
	EventsGenerated  int
	EventsSubmitted  int
	EventsSuccessful int
	EventsDuplicate  int
	EventsFailed     int
	Dispatched       int64
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
