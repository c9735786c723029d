package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"scrapewatch/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newApp(out *bytes.Buffer) *cli.App {
	return &cli.App{
		Name:     "scrapewatch",
		Commands: Commands,
		Writer:   out,
	}
}

func TestScrapeCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	var buf bytes.Buffer
	err := newApp(&buf).Run([]string{"scrapewatch", "scrape", "--name", "bot", "--level", "info", "--no-color", srv.URL})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "bot/info    Starting...\n")
	assert.Contains(t, buf.String(), "bot/info    Queued "+srv.URL+"\n")
	assert.NotContains(t, buf.String(), "bot/debug", "debug lines are below the info level")
	assert.Contains(t, buf.String(), "bot/info    Scraper ended.\n")
}

func TestScrapeCommandRejectsBadFlags(t *testing.T) {
	var buf bytes.Buffer
	err := newApp(&buf).Run([]string{"scrapewatch", "scrape", "--level", "silly", "http://example.com"})
	assert.ErrorIs(t, err, config.ErrInvalid)

	err = newApp(&buf).Run([]string{"scrapewatch", "scrape"})
	assert.ErrorIs(t, err, ErrNoURLs)
}

func TestScheduleCommandNeedsCron(t *testing.T) {
	var buf bytes.Buffer
	err := newApp(&buf).Run([]string{"scrapewatch", "schedule", "http://example.com"})
	assert.ErrorIs(t, err, ErrNoCron)
}
