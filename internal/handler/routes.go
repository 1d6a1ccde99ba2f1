package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cors-anywhere-go/internal/config"
	"cors-anywhere-go/internal/metrics"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
// The host endpoints only answer a plain GET or HEAD without a query string;
// any other request on their paths is proxy traffic like every other path.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, proxy *ProxyHandler, health *HealthHandler) {
	e.Any("/healthz", hostOnly(health.Healthz, proxy.Handle))
	e.Any("/proxy/status", hostOnly(health.Status, proxy.Handle))

	if cfg.Metrics.Enabled {
		scrape := echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
		e.Any(cfg.Metrics.Path, hostOnly(scrape, proxy.Handle))
	}

	e.Any("/", proxy.Handle)
	e.Any("/*", proxy.Handle)
}

// hostOnly serves host for query-less GET and HEAD requests and hands
// everything else to proxy.
func hostOnly(host, proxy echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if req.URL.RawQuery != "" {
			return proxy(c)
		}
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			return proxy(c)
		}
		return host(c)
	}
}
