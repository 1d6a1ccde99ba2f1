// Package middleware provides Echo middleware for logging, metrics and header hygiene.
package middleware

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"cors-anywhere-go/internal/model"
)

// RequestLogger returns an Echo middleware that logs one line per request.
// Target URLs are never logged since their query may carry credentials; the
// line records only whether one was given and what the proxy did with it.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			attrs := []any{
				"method", req.Method,
				"path", req.URL.Path,
				"has_target", req.URL.RawQuery != "",
				"origin", req.Header.Get(echo.HeaderOrigin),
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", res.Header().Get(echo.HeaderXRequestID),
				"remote_ip", c.RealIP(),
				"bytes_out", res.Size,
			}
			if outcome, ok := c.Get(model.OutcomeKey).(string); ok {
				attrs = append(attrs, "outcome", outcome)
			}
			if preflight, ok := c.Get(model.PreflightKey).(bool); ok && preflight {
				attrs = append(attrs, "preflight", true)
			}

			level := slog.LevelInfo
			if res.Status >= 500 {
				level = slog.LevelWarn
			}
			logger.Log(req.Context(), level, "request", attrs...)

			return err
		}
	}
}
