package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"

	"cors-anywhere-go/internal/headers"
	"cors-anywhere-go/internal/model"
	"cors-anywhere-go/internal/service"
)

// Connection metadata headers set by Cloudflare in front of the proxy.
const (
	headerConnectingIP = "CF-Connecting-IP"
	headerIPCountry    = "CF-IPCountry"
	headerRay          = "CF-Ray"
)

// outcomeError marks requests that ended in a mapped error response.
const outcomeError = "error"

// targetQueryPattern matches query strings of URLs embedded in error messages.
// Target URLs often carry tokens in their query.
var targetQueryPattern = regexp.MustCompile(`(https?://[^?\s"]+)\?[^\s"]+`)

// ProxyHandler serves every non-reserved path through the proxy service.
type ProxyHandler struct {
	service *service.ProxyService
	logger  *slog.Logger
}

// NewProxyHandler creates a ProxyHandler.
func NewProxyHandler(svc *service.ProxyService, logger *slog.Logger) *ProxyHandler {
	return &ProxyHandler{
		service: svc,
		logger:  logger.With("component", "proxy_handler"),
	}
}

// Handle converts the echo request into a proxy request, runs it and streams
// the result back.
func (h *ProxyHandler) Handle(c echo.Context) error {
	req := c.Request()

	pr := &model.Request{
		Ctx:           req.Context(),
		Method:        req.Method,
		Origin:        c.Scheme() + "://" + req.Host,
		RawQuery:      req.URL.RawQuery,
		Header:        req.Header,
		Body:          req.Body,
		ContentLength: req.ContentLength,
		Conn:          connInfo(c),
	}

	resp, err := h.service.Handle(pr)
	if err != nil {
		c.Set(model.OutcomeKey, outcomeError)
		return h.mapError(c, err)
	}
	c.Set(model.OutcomeKey, resp.Outcome)
	c.Set(model.PreflightKey, resp.Preflight)
	return h.write(c, resp)
}

func (h *ProxyHandler) write(c echo.Context, resp *model.Response) error {
	dst := c.Response().Header()
	for key, vals := range headers.RemoveHopByHop(resp.Header) {
		for _, v := range vals {
			dst.Add(key, v)
		}
	}

	if resp.Body == nil {
		dst.Del(echo.HeaderContentLength)
		c.Response().WriteHeader(resp.StatusCode)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	c.Response().WriteHeader(resp.StatusCode)

	// The status line is already out, so a failed copy leaves the client with
	// a truncated body. Log it and move on.
	if _, err := io.Copy(c.Response(), resp.Body); err != nil {
		h.logger.Error("streaming response body",
			"err", err,
			"path", c.Request().URL.Path,
		)
	}
	return nil
}

func (h *ProxyHandler) mapError(c echo.Context, err error) error {
	h.logger.Error("proxy error",
		"err", sanitizeError(err),
		"path", c.Request().URL.Path,
	)

	if errors.Is(err, service.ErrBadTarget) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "target URL is not valid percent-encoding",
		})
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return c.JSON(http.StatusGatewayTimeout, map[string]string{
			"error": "upstream request timed out",
		})
	}

	if errors.Is(err, context.Canceled) {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "client disconnected",
		})
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "upstream host unreachable",
		})
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "upstream connection failed",
		})
	}

	return c.JSON(http.StatusBadGateway, map[string]string{
		"error": "upstream request failed",
	})
}

// connInfo reads caller metadata from Cloudflare headers, falling back to
// echo's view of the remote address.
func connInfo(c echo.Context) model.ConnInfo {
	h := c.Request().Header

	ip := h.Get(headerConnectingIP)
	if ip == "" {
		ip = c.RealIP()
	}

	var dc string
	if ray := h.Get(headerRay); ray != "" {
		if i := strings.LastIndexByte(ray, '-'); i >= 0 {
			dc = ray[i+1:]
		}
	}

	return model.ConnInfo{
		IP:         ip,
		Country:    h.Get(headerIPCountry),
		Datacenter: dc,
	}
}

// sanitizeError redacts query strings from target URLs in error messages.
func sanitizeError(err error) string {
	return targetQueryPattern.ReplaceAllString(err.Error(), "${1}?[REDACTED]")
}
