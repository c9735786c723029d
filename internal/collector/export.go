package collector

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/ziflex/lecho/v3"
)

// Handler serves the collector's registry in the Prometheus text format.
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{Registry: mc.registry})
}

func (mc *MetricsCollector) ExposeWebMetrics(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(mc.Handler()))
}

// Router builds the echo instance serving the metrics endpoint, logging
// requests through zerolog.
func (mc *MetricsCollector) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger := lecho.From(log.Logger)
	e.Logger = logger
	e.Use(middleware.Recover())
	e.Use(lecho.Middleware(lecho.Config{Logger: logger}))

	mc.ExposeWebMetrics(e)
	return e
}

// NewServer returns the router's http.Server bound to addr.
func (mc *MetricsCollector) NewServer(addr string) *http.Server {
	e := mc.Router()
	e.Server.Addr = addr
	return e.Server
}
