package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"scrapewatch/internal/collector"
	"scrapewatch/internal/runner"

	"github.com/ory/graceful"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

var ErrNoCron = errors.New("no cron schedule: pass --cron or set scraper.cron")

// ScheduleCommand repeats a scrape on a cron schedule until interrupted.
var ScheduleCommand = &cli.Command{
	Name:      "schedule",
	Usage:     "Scrape URLs repeatedly on a cron schedule",
	ArgsUsage: "[url...]",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "cron",
			Aliases: []string{"c"},
			Usage:   "Cron expression, five fields or six with seconds.",
		},
		&cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "Serve Prometheus metrics on this address, e.g. :9091.",
		},
		&cli.BoolFlag{
			Name:  "now",
			Usage: "Run once immediately after scheduling.",
		},
	}, runFlags...),
	Action: schedule,
}

func schedule(c *cli.Context) (err error) {
	cfg, urls, err := resolve(c)
	if err != nil {
		return err
	}
	if cfg.Scraper.Cron == "" {
		return ErrNoCron
	}

	metrics := collector.NewMetricsCollector()
	opts := runner.RunOptions{Out: c.App.Writer, Metrics: metrics}

	r, err := runner.NewRunner()
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := r.Stop(); stopErr != nil {
			log.Error().Err(stopErr).Msg("Failed to stop scheduler")
		}
	}()

	err = r.Register(cfg.Scraper.Name, cfg.Scraper.Cron, func(ctx context.Context) error {
		return runner.ExecuteRun(ctx, cfg, urls, opts)
	})
	if err != nil {
		return err
	}
	r.Start()

	if next, err := r.NextRun(cfg.Scraper.Name); err == nil {
		log.Info().Str("scraper", cfg.Scraper.Name).Time("next_run", next).Msg("Scrape scheduled")
	} else {
		log.Warn().Err(err).Msg("Failed to get next run")
	}

	if c.Bool("now") {
		log.Info().Msg("Running scrape at startup")
		if err := r.RunNow(cfg.Scraper.Name); err != nil {
			return err
		}
	}

	if cfg.Metrics.Addr == "" {
		ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()
		log.Info().Msg("Scheduler stopped.")
		return nil
	}

	server := graceful.WithDefaults(metrics.NewServer(cfg.Metrics.Addr))
	log.Info().Msgf("Serving metrics on %s", server.Addr)
	if err = graceful.Graceful(server.ListenAndServe, server.Shutdown); err != nil {
		log.Error().Err(err).Msg("Failed to serve metrics")
		return err
	}

	log.Info().Msg("Scheduler stopped gracefully.")
	return nil
}
