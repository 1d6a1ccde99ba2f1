package middleware

import (
	"github.com/labstack/echo/v4"

	"cors-anywhere-go/internal/headers"
)

// StripHopByHop returns an Echo middleware that removes hop-by-hop headers,
// including those named in Connection, from the incoming request before any
// handler sees them.
func StripHopByHop() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			req.Header = headers.RemoveHopByHop(req.Header)
			return next(c)
		}
	}
}
