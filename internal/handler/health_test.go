package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"cors-anywhere-go/internal/config"
	"cors-anywhere-go/internal/policy"
)

func TestHealthz(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewHealthHandler(&config.Config{}, policy.Default(), "test")
	if err := h.Healthz(c); err != nil {
		t.Fatalf("Healthz() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want %q", body["status"], "ok")
	}
}

func TestStatus(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/proxy/status", http.NoBody)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	f, err := policy.New([]string{`\.internal/`, `^http://localhost`}, []string{`.*`})
	if err != nil {
		t.Fatalf("policy.New: %v", err)
	}
	cfg := &config.Config{
		Upstream: config.UpstreamConfig{TimeoutSeconds: 15, MaxRedirects: 5},
	}
	h := NewHealthHandler(cfg, f, "1.2.3")
	if err := h.Status(c); err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := statusResponse{
		Status:                 "ok",
		Version:                "1.2.3",
		DenyPatterns:           2,
		AllowPatterns:          1,
		UpstreamTimeoutSeconds: 15,
		MaxRedirects:           5,
	}
	if body != want {
		t.Errorf("body = %+v, want %+v", body, want)
	}
}
