package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"scrapewatch/internal/runner"

	"github.com/urfave/cli/v2"
)

// ScrapeCommand scrapes the given URLs once and prints their progress.
var ScrapeCommand = &cli.Command{
	Name:      "scrape",
	Aliases:   []string{"s"},
	Usage:     "Scrape URLs once with console progress",
	ArgsUsage: "[url...]",
	Flags:     runFlags,
	Action:    scrape,
}

func scrape(c *cli.Context) error {
	cfg, urls, err := resolve(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runner.ExecuteRun(ctx, cfg, urls, runner.RunOptions{Out: c.App.Writer})
}
