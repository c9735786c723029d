package collector

import (
	"scrapewatch/features/events"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Host is the part of a scraper the metrics collector listens to.
type Host interface {
	events.Subscriber
	Name() string
	Pending() int
}

var tracked = []events.Name{
	events.ScraperStart,
	events.ScraperFail,
	events.ScraperSuccess,
	events.PageLog,
	events.PageError,
	events.JobScrape,
	events.JobSuccess,
	events.JobFail,
	events.JobAdded,
	events.JobRetry,
}

// MetricsCollector counts bus events per scraper on its own registry. Values
// describe the latest run of each scraper.
type MetricsCollector struct {
	registry    *prometheus.Registry
	eventsTotal *prometheus.CounterVec // Events seen per scraper and event name
	jobsPending *prometheus.GaugeVec   // Queued jobs not yet finished
}

func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &MetricsCollector{
		registry: registry,

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scrapewatch_events_total",
			Help: "Total number of scraper lifecycle events by scraper and event.",
		}, []string{"scraper", "event"}),

		jobsPending: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scrapewatch_jobs_pending",
			Help: "Number of queued jobs that have not finished.",
		}, []string{"scraper"}),
	}
}

// Attach subscribes the collector to every lifecycle event of host. Series
// cover one run: scraper:start drops the host's previous values.
func (mc *MetricsCollector) Attach(host Host) {
	scraper := host.Name()
	for _, name := range tracked {
		host.On(name, func(events.Payload) {
			if name == events.ScraperStart {
				mc.reset(scraper)
			}
			mc.eventsTotal.With(prometheus.Labels{"scraper": scraper, "event": string(name)}).Inc()
			mc.jobsPending.With(prometheus.Labels{"scraper": scraper}).Set(float64(host.Pending()))
		})
	}
}

func (mc *MetricsCollector) reset(scraper string) {
	mc.eventsTotal.DeletePartialMatch(prometheus.Labels{"scraper": scraper})
	mc.jobsPending.DeletePartialMatch(prometheus.Labels{"scraper": scraper})
}

func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}
