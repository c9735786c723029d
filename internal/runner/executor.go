package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"scrapewatch/features/console"
	"scrapewatch/features/plugin"
	"scrapewatch/features/scraper"
	"scrapewatch/internal/collector"
	ic "scrapewatch/internal/colly"
	"scrapewatch/internal/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RunOptions carries the per-process collaborators of a run.
type RunOptions struct {
	Out     io.Writer
	Metrics *collector.MetricsCollector
}

// ExecuteRun scrapes urls once with a fresh collector, scraper and console
// plugin. Every run gets its own stopwatch.
func ExecuteRun(ctx context.Context, cfg *config.Config, urls []string, opts RunOptions) error {
	startedAt := time.Now()
	runLogger := log.With().
		Str("run", uuid.NewString()).
		Str("scraper", cfg.Scraper.Name).
		Logger()

	level, err := console.ParseLevel(cfg.Console.Level)
	if err != nil {
		return err
	}

	client, err := ic.NewCollector(cfg.Colly)
	if err != nil {
		runLogger.Error().Err(err).Msg("Failed to create collector")
		return err
	}

	s := scraper.New(client,
		scraper.WithName(cfg.Scraper.Name),
		scraper.WithMaxRetries(cfg.Scraper.MaxRetries),
	)

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if _, err := plugin.Attach(s,
		plugin.WithLevel(level),
		plugin.WithColor(cfg.Console.Color),
		plugin.WithNoColor(cfg.Console.NoColor),
		plugin.WithWriter(out),
	); err != nil {
		return err
	}

	if opts.Metrics != nil {
		opts.Metrics.Attach(s)
	}

	if err := s.Run(ctx, urls); err != nil {
		runLogger.Debug().Err(err).Dur("duration", time.Since(startedAt)).Msg("Run finished with error")
		return fmt.Errorf("scrape run %q: %w", cfg.Scraper.Name, err)
	}

	runLogger.Debug().Dur("duration", time.Since(startedAt)).Msg("Run finished")
	return nil
}
