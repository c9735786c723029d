package scraper_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scrapewatch/features/plugin"
	"scrapewatch/features/scraper"

	"github.com/gocolly/colly/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleOutputForRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("<html>hello</html>"))
	}))
	defer srv.Close()

	s := scraper.New(colly.NewCollector(), scraper.WithName("shop"), scraper.WithMaxRetries(1))

	var buf bytes.Buffer
	p, err := plugin.Attach(s, plugin.WithWriter(&buf), plugin.WithNoColor(true))
	require.NoError(t, err)

	err = s.Run(context.Background(), []string{srv.URL + "/a", srv.URL + "/missing"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "shop/info    Starting...", lines[0])
	assert.Equal(t, "shop/info    Scraper ended.", lines[len(lines)-1])

	out := buf.String()
	assert.Contains(t, out, "shop/info    Queued "+srv.URL+"/a\n")
	assert.Contains(t, out, "shop/info    Scraping "+srv.URL+"/a\n")
	assert.Contains(t, out, "shop/info    Scraped "+srv.URL+"/a in a few seconds (")
	assert.Contains(t, out, "~a few seconds remaining")
	assert.Contains(t, out, "shop/verbose Retrying "+srv.URL+"/missing (1/1 retries)\n")
	assert.Contains(t, out, "shop/warn    Failed "+srv.URL+"/missing [Error: Not Found]\n")
	assert.Contains(t, out, "shop/debug   "+srv.URL+"/a 200 OK (")

	assert.Len(t, p.Stopwatch().Steps(), 1)
}
