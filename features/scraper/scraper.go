package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"scrapewatch/features/events"

	"github.com/dustin/go-humanize"
	"github.com/gocolly/colly/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoURLs        = errors.New("no URLs to scrape")
	ErrAllJobsFailed = errors.New("all jobs failed")
	ErrNotFetched    = errors.New("request was not fetched")
)

const (
	jobKey   = "scrapewatch_job"
	stateKey = "scrapewatch_state"
)

type jobState int

const (
	stateSucceeded jobState = iota + 1
	stateFailed
)

// Scraper drives a colly collector over a list of URLs and emits lifecycle
// events on its bus. Jobs run one after another.
type Scraper struct {
	name       string
	maxRetries int
	bus        *events.Bus
	collector  *colly.Collector
	pending    atomic.Int64
}

type Option func(*Scraper)

func WithName(name string) Option {
	return func(s *Scraper) {
		s.name = name
	}
}

// WithMaxRetries sets how often a failed job is retried. Zero disables retries.
func WithMaxRetries(n int) Option {
	return func(s *Scraper) {
		s.maxRetries = max(0, n)
	}
}

func WithBus(bus *events.Bus) Option {
	return func(s *Scraper) {
		s.bus = bus
	}
}

func New(collector *colly.Collector, opts ...Option) *Scraper {
	s := &Scraper{
		name:      "scraper",
		bus:       events.NewBus(),
		collector: collector,
	}
	for _, opt := range opts {
		opt(s)
	}

	collector.OnRequest(s.onRequest)
	collector.OnResponse(s.onResponse)
	collector.OnScraped(s.onScraped)
	collector.OnError(s.onError)

	return s
}

func (s *Scraper) Name() string {
	return s.name
}

func (s *Scraper) MaxRetries() int {
	return s.maxRetries
}

// Pending returns the number of queued jobs that have not finished.
func (s *Scraper) Pending() int {
	return int(s.pending.Load())
}

func (s *Scraper) On(name events.Name, h events.Handler) {
	s.bus.On(name, h)
}

func (s *Scraper) Once(name events.Name, h events.Handler) {
	s.bus.Once(name, h)
}

// Run queues every URL as a job and fetches them in order. It fails when the
// context is cancelled or when no job succeeds.
func (s *Scraper) Run(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return ErrNoURLs
	}

	runLogger := log.With().
		Str("scraper", s.name).
		Str("run_id", uuid.NewString()).
		Logger()
	runLogger.Debug().Int("jobs", len(urls)).Msg("Scraper run starting")

	s.bus.Emit(events.ScraperStart, events.Payload{})

	jobs := make([]*events.Job, 0, len(urls))
	for _, u := range urls {
		job := &events.Job{ID: uuid.New(), Req: &events.Request{URL: u}}
		jobs = append(jobs, job)
		s.pending.Add(1)
		s.bus.Emit(events.JobAdded, events.Payload{Job: job})
	}

	// In-flight requests are bound to ctx for the duration of the run.
	previous := s.collector.Context
	s.collector.Context = ctx
	defer func() { s.collector.Context = previous }()

	var cancelled error
	failed := 0
	for _, job := range jobs {
		if cancelled = ctx.Err(); cancelled != nil {
			break
		}
		if !s.visit(runLogger, job) {
			failed++
			// A job aborted by cancellation ends the run.
			if cancelled = ctx.Err(); cancelled != nil {
				break
			}
		}
	}

	if cancelled != nil {
		s.pending.Store(0)
		runLogger.Warn().Err(cancelled).Msg("Scraper run cancelled")
		s.bus.Emit(events.ScraperFail, events.Payload{Err: cancelled})
		return cancelled
	}

	if failed == len(jobs) {
		err := fmt.Errorf("%w: %d of %d", ErrAllJobsFailed, failed, len(jobs))
		runLogger.Error().Err(err).Msg("Scraper run failed")
		s.bus.Emit(events.ScraperFail, events.Payload{Err: err})
		return err
	}

	runLogger.Debug().Int("failed", failed).Msg("Scraper run finished")
	s.bus.Emit(events.ScraperSuccess, events.Payload{})
	return nil
}

// visit fetches a single job and reports whether it succeeded.
func (s *Scraper) visit(runLogger zerolog.Logger, job *events.Job) bool {
	cctx := colly.NewContext()
	cctx.Put(jobKey, job)

	err := s.collector.Request(http.MethodGet, job.Req.URL, nil, cctx, nil)

	state, _ := cctx.GetAny(stateKey).(jobState)
	if state == 0 {
		// Rejected before any callback ran, e.g. a malformed or disallowed URL.
		if err == nil {
			err = ErrNotFetched
		}
		s.fail(cctx, job, err)
		state = stateFailed
	}

	runLogger.Debug().
		Stringer("job_id", job.ID).
		Str("url", job.Req.URL).
		Int("retries", job.Req.Retries).
		Bool("succeeded", state == stateSucceeded).
		Msg("Job finished")

	return state == stateSucceeded
}

func (s *Scraper) onRequest(r *colly.Request) {
	job := jobFrom(r.Ctx, r.URL.String())
	s.bus.Emit(events.JobScrape, events.Payload{Job: job})
}

func (s *Scraper) onResponse(r *colly.Response) {
	job := jobFrom(r.Ctx, r.Request.URL.String())
	s.bus.Emit(events.PageLog, events.Payload{
		Req: job.Req,
		Data: fmt.Sprintf("%d %s (%s)",
			r.StatusCode,
			http.StatusText(r.StatusCode),
			humanize.Bytes(uint64(len(r.Body))),
		),
	})
}

func (s *Scraper) onScraped(r *colly.Response) {
	job := jobFrom(r.Ctx, r.Request.URL.String())
	r.Ctx.Put(stateKey, stateSucceeded)
	s.pending.Add(-1)
	s.bus.Emit(events.JobSuccess, events.Payload{Job: job})
}

func (s *Scraper) onError(r *colly.Response, err error) {
	job := jobFrom(r.Ctx, r.Request.URL.String())
	s.bus.Emit(events.PageError, events.Payload{Req: job.Req, Err: err})

	if job.Req.Retries < s.maxRetries && s.collector.Context.Err() == nil {
		job.Req.Retries++
		s.bus.Emit(events.JobRetry, events.Payload{Job: job})
		if rerr := r.Request.Retry(); rerr != nil {
			log.Debug().Err(rerr).Str("url", job.Req.URL).Msg("Retry was not sent")
		}
		return
	}

	s.fail(r.Ctx, job, err)
}

func (s *Scraper) fail(cctx *colly.Context, job *events.Job, err error) {
	cctx.Put(stateKey, stateFailed)
	s.pending.Add(-1)
	s.bus.Emit(events.JobFail, events.Payload{Job: job, Err: err})
}

func jobFrom(cctx *colly.Context, url string) *events.Job {
	if job, ok := cctx.GetAny(jobKey).(*events.Job); ok {
		return job
	}
	job := &events.Job{ID: uuid.New(), Req: &events.Request{URL: url}}
	cctx.Put(jobKey, job)
	return job
}
