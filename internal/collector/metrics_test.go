package collector

import (
	"io"
	"net/http/httptest"
	"testing"

	"scrapewatch/features/events"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	*events.Bus
	pending int
}

func (h *fakeHost) Name() string { return "bot" }
func (h *fakeHost) Pending() int { return h.pending }

func TestAttachCountsEvents(t *testing.T) {
	mc := NewMetricsCollector()
	host := &fakeHost{Bus: events.NewBus(), pending: 2}
	mc.Attach(host)

	host.Emit(events.JobAdded, events.Payload{})
	host.Emit(events.JobAdded, events.Payload{})
	host.Emit(events.JobFail, events.Payload{})

	assert.Equal(t, 2.0, testutil.ToFloat64(mc.eventsTotal.WithLabelValues("bot", "job:added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.eventsTotal.WithLabelValues("bot", "job:fail")))
	assert.Equal(t, 0.0, testutil.ToFloat64(mc.eventsTotal.WithLabelValues("bot", "job:success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(mc.jobsPending.WithLabelValues("bot")))
}

func TestCollectorsAreIndependent(t *testing.T) {
	first := NewMetricsCollector()
	second := NewMetricsCollector()
	assert.NotSame(t, first.Registry(), second.Registry())
}

func TestHandlerExposesMetrics(t *testing.T) {
	mc := NewMetricsCollector()
	host := &fakeHost{Bus: events.NewBus()}
	mc.Attach(host)
	host.Emit(events.ScraperStart, events.Payload{})

	srv := httptest.NewServer(mc.Router())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `scrapewatch_events_total{event="scraper:start",scraper="bot"} 1`)
}

func TestNewServerUsesRouter(t *testing.T) {
	server := NewMetricsCollector().NewServer(":9091")
	assert.Equal(t, ":9091", server.Addr)
	assert.IsType(t, &echo.Echo{}, server.Handler)
}

func TestAttachScopesSeriesToOneRun(t *testing.T) {
	mc := NewMetricsCollector()
	other := &fakeHost{Bus: events.NewBus()}

	for range 3 {
		host := &fakeHost{Bus: events.NewBus()}
		mc.Attach(host)
		host.Emit(events.ScraperStart, events.Payload{})
		host.Emit(events.JobSuccess, events.Payload{})
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(mc.eventsTotal.WithLabelValues("bot", "job:success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.eventsTotal.WithLabelValues("bot", "scraper:start")))

	mc.Attach(other)
	other.Emit(events.JobFail, events.Payload{})
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.eventsTotal.WithLabelValues("bot", "job:success")), "no new scraper:start, no reset")
}
