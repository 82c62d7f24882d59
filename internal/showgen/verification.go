package showgen

import (
	"context"
	"fmt"
	"log"
	"time"
)

// serviceStats is the subset of GET /stats the runner reads.
type serviceStats struct {
	Started    bool    `json:"started"`
	Beat       float64 `json:"beat"`
	Dispatched int64   `json:"dispatched"`
	Pending    int64   `json:"pending"`
}

func fetchStats(ctx context.Context, client *HTTPClient) (serviceStats, error) {
	var st serviceStats
	if err := client.getJSON(ctx, "/stats", &st); err != nil {
		return serviceStats{}, fmt.Errorf("fetching stats: %w", err)
	}
	if !st.Started {
		return serviceStats{}, fmt.Errorf("service is not started")
	}
	return st, nil
}

// waitDispatched polls /stats until want more events were dispatched than
// at baseline, or the wait elapses.
func waitDispatched(ctx context.Context, client *HTTPClient, baseline, want int64, wait time.Duration) (int64, error) {
	log.Printf("waiting up to %v for %d events to dispatch", wait, want)

	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	ticker := time.NewTicker(VerifyPollInterval)
	defer ticker.Stop()

	var got int64
	for {
		st, err := fetchStats(ctx, client)
		if err == nil {
			got = st.Dispatched - baseline
			if got >= want {
				log.Printf("all %d events dispatched", want)
				return got, nil
			}
		}
		select {
		case <-ctx.Done():
			return got, fmt.Errorf("dispatched %d of %d events: %w", got, want, ctx.Err())
		case <-ticker.C:
		}
	}
}
