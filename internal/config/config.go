package config

import (
	"time"

	"github.com/rs/zerolog"
)

type APPConfig struct {
	Environment string        `koanf:"environment" default:"development"`
	LogLevel    zerolog.Level `koanf:"log_level" default:"info"`
}

// ConsoleConfig drives the console plugin output.
type ConsoleConfig struct {
	Level   string `koanf:"level" default:"debug" validate:"oneof=error warn info verbose debug"`
	Color   string `koanf:"color" default:"magenta" validate:"oneof=black red green yellow blue magenta cyan white gray grey"`
	NoColor bool   `koanf:"no_color" default:"false"`
}

type ScraperConfig struct {
	Name       string   `koanf:"name" default:"scraper" validate:"required"`
	MaxRetries int      `koanf:"max_retries" default:"0" validate:"gte=0"`
	URLs       []string `koanf:"urls" validate:"dive,url"`
	Cron       string   `koanf:"cron" default:""`
}

type CollyConfig struct {
	MaxSize        int           `koanf:"max_size" default:"1048576" validate:"gte=0"`
	MaxDepth       int           `koanf:"max_depth" default:"1" validate:"gte=0"`
	AllowedDomains []string      `koanf:"allowed_domains"`
	UserAgent      string        `koanf:"user_agent" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"`
	TimeOut        time.Duration `koanf:"timeout" default:"30s"`
	IgnoreRobots   bool          `koanf:"ignore_robots" default:"true"`
}

type MetricsConfig struct {
	// Addr is empty when the metrics endpoint is disabled.
	Addr string `koanf:"addr" default:""`
}

type Config struct {
	APP     APPConfig     `koanf:"app"`
	Console ConsoleConfig `koanf:"console"`
	Scraper ScraperConfig `koanf:"scraper"`
	Colly   CollyConfig   `koanf:"colly"`
	Metrics MetricsConfig `koanf:"metrics"`
}
