// Package service implements the CORS proxy's request dispatch: policy check,
// header rewriting, upstream fetch and response composition.
package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"cors-anywhere-go/internal/client"
	"cors-anywhere-go/internal/headers"
	"cors-anywhere-go/internal/metrics"
	"cors-anywhere-go/internal/model"
	"cors-anywhere-go/internal/policy"
)

// ProxyService handles one proxy request at a time; it holds no per-request state.
type ProxyService struct {
	filter  *policy.Filter
	client  *client.UpstreamClient
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewProxyService creates a ProxyService.
// The metrics parameter is optional; pass nil to disable outcome recording.
func NewProxyService(f *policy.Filter, c *client.UpstreamClient, m *metrics.Metrics, logger *slog.Logger) *ProxyService {
	return &ProxyService{
		filter:  f,
		client:  c,
		metrics: m,
		logger:  logger.With("component", "proxy_service"),
	}
}

// Handle runs the policy filter and then returns either the denied page, the
// info page, or the upstream response with CORS headers applied.
// The caller is responsible for closing the response body.
//
// An error means the target could not be decoded (ErrBadTarget) or fetched.
func (s *ProxyService) Handle(req *model.Request) (*model.Response, error) {
	origin, hasOrigin := headers.Value(req.Header, headers.Origin)
	originField := policy.Field{Value: origin, Present: hasOrigin}

	target, err := DecodeTarget(req.RawQuery)
	if err != nil {
		// A caller the allow list rejects gets the denied page whatever the target.
		if !s.filter.Allowed(policy.Absent, originField) {
			return s.deny(origin, ""), nil
		}
		return nil, err
	}

	targetField := policy.Absent
	if req.RawQuery != "" {
		targetField = policy.Present(target)
	}

	if !s.filter.Allowed(targetField, originField) {
		return s.deny(origin, targetHost(target)), nil
	}

	overlay, hasOverlay := headers.ParseOverlay(headers.Value(req.Header, headers.OverlayHeader))

	if req.RawQuery == "" {
		s.record(metrics.OutcomeInfo)
		return info(req, overlay, hasOverlay), nil
	}

	resp, err := s.forward(req, target, overlay)
	if err != nil {
		return nil, err
	}
	s.record(metrics.OutcomeProxied)
	return resp, nil
}

func (s *ProxyService) deny(origin, host string) *model.Response {
	s.logger.Info("request denied",
		"origin", origin,
		"target_host", host,
	)
	s.record(metrics.OutcomeDenied)
	return denied()
}

func (s *ProxyService) forward(req *model.Request, target string, overlay headers.Overlay) (*model.Response, error) {
	s.logger.Debug("forwarding request",
		"method", req.Method,
		"target_host", targetHost(target),
	)

	up, err := s.client.Fetch(req.Ctx, req.Method, target, headers.Outbound(req.Header, overlay), req.Body, req.ContentLength)
	if err != nil {
		return nil, fmt.Errorf("forward to upstream: %w", err)
	}

	// Snapshot before any header is rewritten.
	names, all := headers.Received(up.Header)
	exposed := append(names, headers.ReceivedName)

	preflight := req.IsPreflight()
	h := headers.CORS(up.Header, preflight, req.Header)
	h.Set(headers.ExposeHeaders, strings.Join(exposed, ","))
	h.Set(headers.ReceivedName, encodeReceived(all))

	if preflight {
		_ = up.Body.Close()
		if s.metrics != nil {
			s.metrics.Preflight.Inc()
		}
		return &model.Response{
			StatusCode: http.StatusOK,
			StatusText: "OK",
			Header:     h,
			Outcome:    metrics.OutcomeProxied,
			Preflight:  true,
		}, nil
	}

	return &model.Response{
		StatusCode: up.StatusCode,
		StatusText: up.StatusText,
		Header:     h,
		Body:       up.Body,
		Outcome:    metrics.OutcomeProxied,
	}, nil
}

func (s *ProxyService) record(outcome string) {
	if s.metrics != nil {
		s.metrics.Outcomes.WithLabelValues(outcome).Inc()
	}
}

func denied() *model.Response {
	return &model.Response{
		StatusCode: http.StatusForbidden,
		StatusText: "Forbidden",
		Header:     http.Header{"Content-Type": {"text/html"}},
		Body:       io.NopCloser(strings.NewReader(deniedPage)),
		Outcome:    metrics.OutcomeDenied,
	}
}

func info(req *model.Request, overlay headers.Overlay, hasOverlay bool) *model.Response {
	h := headers.CORS(nil, false, req.Header)
	h.Set("Content-Type", "text/plain;charset=UTF-8")
	return &model.Response{
		StatusCode: http.StatusOK,
		StatusText: "OK",
		Header:     h,
		Body:       io.NopCloser(strings.NewReader(infoPage(req, overlay, hasOverlay))),
		Outcome:    metrics.OutcomeInfo,
	}
}

// encodeReceived serializes the upstream header map without HTML escaping.
func encodeReceived(all map[string]string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(all); err != nil {
		return "{}"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
