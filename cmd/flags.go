package cmd

import (
	"errors"

	"scrapewatch/internal/config"

	"github.com/urfave/cli/v2"
)

var (
	ErrNoURLs   = errors.New("no URLs given: pass them as arguments or set scraper.urls")
	ErrNoConfig = errors.New("config is not loaded")
)

// runFlags are shared by every command that scrapes.
var runFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "level",
		Aliases: []string{"l"},
		Usage:   "Minimum console level: [error, warn, info, verbose, debug].",
	},
	&cli.StringFlag{
		Name:  "color",
		Usage: "Color of the scraper name, e.g. magenta or cyan.",
	},
	&cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output.",
	},
	&cli.StringFlag{
		Name:    "name",
		Aliases: []string{"n"},
		Usage:   "Scraper name shown on every line.",
	},
	&cli.IntFlag{
		Name:    "max-retries",
		Aliases: []string{"r"},
		Usage:   "Retries per failed job, 0 disables retries.",
	},
}

// resolve copies the loaded config, applies flags set on the command line
// and returns the URLs to scrape.
func resolve(c *cli.Context) (*config.Config, []string, error) {
	loaded := config.GetConfig()
	if loaded == nil {
		return nil, nil, ErrNoConfig
	}
	cfg := *loaded

	if c.IsSet("level") {
		cfg.Console.Level = c.String("level")
	}
	if c.IsSet("color") {
		cfg.Console.Color = c.String("color")
	}
	if c.IsSet("no-color") {
		cfg.Console.NoColor = c.Bool("no-color")
	}
	if c.IsSet("name") {
		cfg.Scraper.Name = c.String("name")
	}
	if c.IsSet("max-retries") {
		cfg.Scraper.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("cron") {
		cfg.Scraper.Cron = c.String("cron")
	}
	if c.IsSet("metrics-addr") {
		cfg.Metrics.Addr = c.String("metrics-addr")
	}

	urls := c.Args().Slice()
	if len(urls) == 0 {
		urls = cfg.Scraper.URLs
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if len(urls) == 0 {
		return nil, nil, ErrNoURLs
	}

	return &cfg, urls, nil
}
