package plugin

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"scrapewatch/features/console"
	"scrapewatch/features/events"
	"scrapewatch/features/stopwatch"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Host is the scraper the plugin attaches to.
type Host interface {
	events.Subscriber
	Name() string
	// MaxRetries is zero when the host has no retry limit configured.
	MaxRetries() int
	// Pending is the number of queued jobs that have not finished yet.
	Pending() int
}

type options struct {
	level   console.Level
	color   string
	out     io.Writer
	noColor bool
	clock   clockwork.Clock
}

type Option func(*options)

func WithLevel(level console.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithColor sets the color of the scraper name, e.g. "magenta".
func WithColor(name string) Option {
	return func(o *options) {
		o.color = name
	}
}

func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

func WithNoColor(state bool) Option {
	return func(o *options) {
		o.noColor = state
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// Plugin prints lifecycle events of one scraper run and times its jobs.
type Plugin struct {
	host      Host
	logger    console.Logger
	stopwatch *stopwatch.Stopwatch
}

// Attach builds the transport and stopwatch for host and subscribes every
// handler. Handlers stay registered for the lifetime of the host.
func Attach(host Host, opts ...Option) (*Plugin, error) {
	o := &options{
		level: console.LevelDebug,
		color: "magenta",
		out:   os.Stdout,
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(o)
	}

	nameColor, err := console.ParseColor(o.color)
	if err != nil {
		return nil, fmt.Errorf("failed to attach console plugin: %w", err)
	}

	transport := console.NewTransport(
		console.WithWriter(o.out),
		console.WithLevel(o.level),
		console.WithName(host.Name()),
		console.WithColor(nameColor),
		console.WithNoColor(o.noColor),
	)

	p := &Plugin{
		host:      host,
		logger:    transport,
		stopwatch: stopwatch.New(stopwatch.WithClock(o.clock)),
	}
	p.subscribe()

	log.Debug().
		Str("scraper", host.Name()).
		Str("level", o.level.String()).
		Msg("Console plugin attached")

	return p, nil
}

// Stopwatch exposes the run's job timings.
func (p *Plugin) Stopwatch() *stopwatch.Stopwatch {
	return p.stopwatch
}

func (p *Plugin) subscribe() {
	p.host.Once(events.ScraperStart, p.onScraperStart)
	p.host.Once(events.ScraperFail, p.onScraperFail)
	p.host.Once(events.ScraperSuccess, p.onScraperSuccess)

	p.host.On(events.PageLog, p.onPageLog)
	p.host.On(events.PageError, p.onPageError)

	p.host.On(events.JobScrape, p.onJobScrape)
	p.host.On(events.JobSuccess, p.onJobSuccess)
	p.host.On(events.JobFail, p.onJobFail)
	p.host.On(events.JobAdded, p.onJobAdded)
	p.host.On(events.JobRetry, p.onJobRetry)
}

func (p *Plugin) onScraperStart(events.Payload) {
	p.logger.Log(console.LevelInfo, "Starting...")
}

func (p *Plugin) onScraperFail(e events.Payload) {
	msg := "Scraper failed."
	if e.Err != nil {
		msg += " " + errorTag(e.Err)
	}
	p.logger.Log(console.LevelError, msg)
}

func (p *Plugin) onScraperSuccess(events.Payload) {
	p.logger.Log(console.LevelInfo, "Scraper ended.")
}

func (p *Plugin) onPageLog(e events.Payload) {
	p.logger.Log(console.LevelDebug, fmt.Sprintf("%s %v", e.URL(), e.Data))
}

func (p *Plugin) onPageError(e events.Payload) {
	p.logger.Log(console.LevelDebug, e.URL()+" "+errorTag(e.Err))
}

func (p *Plugin) onJobScrape(e events.Payload) {
	p.stopwatch.Start()
	p.logger.Log(console.LevelInfo, "Scraping "+e.URL())
}

func (p *Plugin) onJobSuccess(e events.Payload) {
	p.stopwatch.Stop()

	elapsed := p.stopwatch.Elapsed()
	average := p.stopwatch.OverallAverage()
	msg := fmt.Sprintf("Scraped %s in %s (%ss, avg %ss)",
		e.URL(),
		stopwatch.Humanize(elapsed),
		seconds(elapsed),
		seconds(average),
	)
	if pending := p.host.Pending(); pending > 0 {
		msg += fmt.Sprintf(", ~%s remaining", stopwatch.Humanize(average*time.Duration(pending)))
	}
	p.logger.Log(console.LevelInfo, msg)
}

func (p *Plugin) onJobFail(e events.Payload) {
	p.logger.Log(console.LevelWarn, "Failed "+e.URL()+" "+errorTag(e.Err))
}

func (p *Plugin) onJobAdded(e events.Payload) {
	p.logger.Log(console.LevelInfo, "Queued "+e.URL())
}

func (p *Plugin) onJobRetry(e events.Payload) {
	var retries int
	if e.Job != nil && e.Job.Req != nil {
		retries = e.Job.Req.Retries
	} else if e.Req != nil {
		retries = e.Req.Retries
	}

	count := strconv.Itoa(retries)
	if limit := p.host.MaxRetries(); limit > 0 {
		count += "/" + strconv.Itoa(limit)
	}
	p.logger.Log(console.LevelVerbose, fmt.Sprintf("Retrying %s (%s retries)", e.URL(), count))
}

func errorTag(err error) string {
	if err == nil {
		return "[Error: unknown]"
	}
	return "[Error: " + err.Error() + "]"
}

// seconds renders d in seconds at millisecond precision, e.g. "0.1".
func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Round(time.Millisecond).Seconds(), 'f', -1, 64)
}
