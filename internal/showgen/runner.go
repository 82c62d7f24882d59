package showgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/lightshow/internal/beatmap"
	"github.com/okian/lightshow/pkg/logger"
)

const directoryPermission = 0750

// Run generates the show, writes it to cfg.Output and, when a base URL is
// set, posts it to the service ahead of its clock.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("showgen")

	log.Info(ctx, "generating show",
		logger.Any("seed", cfg.Seed),
		logger.Float64("beats", cfg.Beats),
		logger.Int("density", cfg.Density),
		logger.Bool("gradients", cfg.Gradients),
	)
	bm := Generate(cfg)
	stats.EventsGenerated = len(bm.Events)

	if cfg.Output != "" {
		if err := writeBeatmap(cfg.Output, bm); err != nil {
			return nil, err
		}
		log.Info(ctx, "beatmap written", logger.String("path", cfg.Output), logger.Int("events", len(bm.Events)))
	}

	if cfg.BaseURL != "" {
		client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
		st, err := fetchStats(ctx, client)
		if err != nil {
			return nil, fmt.Errorf("service check failed: %w", err)
		}
		offset := st.Beat + cfg.Lead
		log.Info(ctx, "posting show", logger.String("url", cfg.BaseURL), logger.Float64("offset", offset))

		submitEvents(ctx, cfg, client, bm.Events, offset, stats)

		if cfg.Verify > 0 && stats.EventsSuccessful > 0 {
			n, err := waitDispatched(ctx, client, st.Dispatched, int64(stats.EventsSuccessful), cfg.Verify)
			stats.Dispatched = n
			if err != nil {
				log.Warn(ctx, "dispatch verification incomplete", logger.Error(err))
			}
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	log.Info(ctx, "show generation completed",
		logger.Int("generated", stats.EventsGenerated),
		logger.Int("accepted", stats.EventsSuccessful),
		logger.Int("duplicate", stats.EventsDuplicate),
		logger.Int("failed", stats.EventsFailed),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func writeBeatmap(path string, bm *beatmap.Beatmap) error {
	if err := os.MkdirAll(filepath.Dir(path), directoryPermission); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := beatmap.Write(f, bm); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
