// Package model defines shared types for the proxy.
package model

import (
	"context"
	"io"
	"net/http"
)

// ConnInfo is connection metadata supplied by the hosting server.
// Empty fields mean the host does not know the value.
type ConnInfo struct {
	IP         string
	Country    string
	Datacenter string
}

// Request represents one incoming request to the CORS proxy.
type Request struct {
	Ctx    context.Context
	Method string
	// Origin is the proxy's own scheme://host, used to render usage hints.
	Origin        string
	RawQuery      string
	Header        http.Header
	Body          io.ReadCloser
	ContentLength int64
	Conn          ConnInfo
}

// IsPreflight reports whether the request is a CORS preflight.
func (r *Request) IsPreflight() bool {
	return r.Method == http.MethodOptions
}

// Response is the response the proxy hands back to the host for writing.
// Body may be nil for an empty response.
type Response struct {
	StatusCode int
	StatusText string
	Header     http.Header
	Body       io.ReadCloser

	// Outcome is "proxied", "info" or "denied".
	Outcome string
	// Preflight is set when the response answers a forwarded CORS preflight.
	Preflight bool
}

// Context keys under which the host stores per-request proxy results for
// middleware to read.
const (
	OutcomeKey   = "proxy_outcome"
	PreflightKey = "proxy_preflight"
)
