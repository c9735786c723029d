package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), "")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.APP.Environment)
	assert.Equal(t, zerolog.InfoLevel, cfg.APP.LogLevel)
	assert.Equal(t, "debug", cfg.Console.Level)
	assert.Equal(t, "magenta", cfg.Console.Color)
	assert.False(t, cfg.Console.NoColor)
	assert.Equal(t, "scraper", cfg.Scraper.Name)
	assert.Equal(t, 0, cfg.Scraper.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Colly.TimeOut)
	assert.Empty(t, cfg.Metrics.Addr)
}

func TestLoadTOMLOverrides(t *testing.T) {
	path := writeFile(t, "config.toml", `
[app]
log_level = "warn"

[console]
level = "warn"
color = "cyan"

[scraper]
name = "prices"
max_retries = 5
urls = ["https://example.com/a", "https://example.com/b"]

[colly]
timeout = "10s"

[metrics]
addr = ":9091"
`)

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, zerolog.WarnLevel, cfg.APP.LogLevel)
	assert.Equal(t, "warn", cfg.Console.Level)
	assert.Equal(t, "cyan", cfg.Console.Color)
	assert.Equal(t, "prices", cfg.Scraper.Name)
	assert.Equal(t, 5, cfg.Scraper.MaxRetries)
	assert.Len(t, cfg.Scraper.URLs, 2)
	assert.Equal(t, 10*time.Second, cfg.Colly.TimeOut)
	assert.Equal(t, ":9091", cfg.Metrics.Addr)
	assert.Equal(t, 1, cfg.Colly.MaxDepth, "keys absent from the file keep their defaults")
}

func TestLoadRejectsInvalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{name: "unknown level", content: "[console]\nlevel = \"silly\"\n"},
		{name: "unknown color", content: "[console]\ncolor = \"chartreuse\"\n"},
		{name: "negative retries", content: "[scraper]\nmax_retries = -1\n"},
		{name: "bad url", content: "[scraper]\nurls = [\"not a url\"]\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.toml", tc.content), "")
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoadBrokenTOML(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", "[console\nlevel ="), "")
	assert.ErrorIs(t, err, ErrParse)
}
