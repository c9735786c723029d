package colly

import (
	"errors"

	"scrapewatch/internal/config"

	"github.com/gocolly/colly/v2"
)

var ErrCollectorCreate = errors.New("failed to create colly collector")

// NewCollector builds a synchronous collector from config. Jobs are fetched
// one at a time so their timings never overlap.
func NewCollector(cfg config.CollyConfig) (*colly.Collector, error) {
	opts := []colly.CollectorOption{
		colly.MaxDepth(cfg.MaxDepth),
		colly.MaxBodySize(cfg.MaxSize),
		colly.AllowURLRevisit(),
		colly.UserAgent(cfg.UserAgent),
	}
	if cfg.IgnoreRobots {
		opts = append(opts, colly.IgnoreRobotsTxt())
	}
	if len(cfg.AllowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(cfg.AllowedDomains...))
	}

	client := colly.NewCollector(opts...)
	if client == nil {
		return nil, ErrCollectorCreate
	}
	if cfg.TimeOut > 0 {
		client.SetRequestTimeout(cfg.TimeOut)
	}

	return client, nil
}
