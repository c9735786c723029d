package main

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	stdlog "log"

	"scrapewatch/cmd"
	"scrapewatch/internal/config"
	"scrapewatch/internal/logger"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		stdlog.Fatalf("error running the app: %v", err)
	}
}

func app() *cli.App {
	helpName := color.YellowString(filepath.Base(os.Args[0]))
	year := strconv.Itoa(time.Now().UTC().Year())

	app := &cli.App{
		Usage:       "Colorized console progress for web scrapes",
		HelpName:    helpName,
		Version:     "v0.0.1",
		Compiled:    time.Now().UTC(),
		Copyright:   "© " + year + " RUNAHO",
		Description: "Scrapes URLs and prints color-coded scraper, page and job events with job timings.",
		Commands:    cmd.Commands,
		Before:      before,
	}

	app.Suggest = true
	return app
}

func before(c *cli.Context) error {
	if err := config.InitConfig(); err != nil {
		return err
	}

	logger.InitializeLogger()
	return nil
}
