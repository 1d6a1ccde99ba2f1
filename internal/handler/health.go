package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cors-anywhere-go/internal/config"
	"cors-anywhere-go/internal/policy"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health and status endpoints.
type HealthHandler struct {
	cfg     *config.Config
	filter  *policy.Filter
	version Version
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config, f *policy.Filter, v Version) *HealthHandler {
	return &HealthHandler{cfg: cfg, filter: f, version: v}
}

// Healthz returns a simple OK response for liveness probes.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

type statusResponse struct {
	Status                 string `json:"status"`
	Version                string `json:"version"`
	DenyPatterns           int    `json:"deny_patterns"`
	AllowPatterns          int    `json:"allow_patterns"`
	UpstreamTimeoutSeconds int    `json:"upstream_timeout_seconds"`
	MaxRedirects           int    `json:"max_redirects"`
}

// Status returns proxy status information.
func (h *HealthHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{
		Status:                 "ok",
		Version:                string(h.version),
		DenyPatterns:           h.filter.DenyCount(),
		AllowPatterns:          h.filter.AllowCount(),
		UpstreamTimeoutSeconds: h.cfg.Upstream.TimeoutSeconds,
		MaxRedirects:           h.cfg.Upstream.MaxRedirects,
	})
}
