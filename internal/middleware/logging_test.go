package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"cors-anywhere-go/internal/model"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	e := echo.New()
	e.Use(RequestLogger(logger))
	e.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/test?https%253A%252F%252Fexample.com%252F%253Ftoken%253Dsecret", http.NoBody)
	req.Header.Set("Origin", "https://app.example.org")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	line := buf.String()
	for _, want := range []string{"method=GET", "path=/test", "has_target=true", "origin=https://app.example.org", "status=200"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line missing %q: %s", want, line)
		}
	}
	if strings.Contains(line, "secret") {
		t.Errorf("log line leaks target query: %s", line)
	}
}

func TestRequestLogger_ProxyOutcome(t *testing.T) {
	tests := []struct {
		name      string
		outcome   string
		preflight bool
		status    int
		want      []string
		unwanted  []string
	}{
		{
			name:     "denied",
			outcome:  "denied",
			status:   http.StatusForbidden,
			want:     []string{"level=INFO", "outcome=denied", "status=403"},
			unwanted: []string{"preflight="},
		},
		{
			name:      "preflight",
			outcome:   "proxied",
			preflight: true,
			status:    http.StatusOK,
			want:      []string{"outcome=proxied", "preflight=true"},
		},
		{
			name:    "upstream failure",
			outcome: "error",
			status:  http.StatusBadGateway,
			want:    []string{"level=WARN", "outcome=error", "status=502"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))
			e := echo.New()
			e.Use(RequestLogger(logger))
			e.Any("/*", func(c echo.Context) error {
				c.Set(model.OutcomeKey, tt.outcome)
				c.Set(model.PreflightKey, tt.preflight)
				return c.NoContent(tt.status)
			})

			req := httptest.NewRequest(http.MethodOptions, "/?x", http.NoBody)
			e.ServeHTTP(httptest.NewRecorder(), req)

			line := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(line, want) {
					t.Errorf("log line missing %q: %s", want, line)
				}
			}
			for _, unwanted := range tt.unwanted {
				if strings.Contains(line, unwanted) {
					t.Errorf("log line should not contain %q: %s", unwanted, line)
				}
			}
		})
	}
}
