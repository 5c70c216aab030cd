package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	_, c, rec := newJSONContext(http.MethodGet, "/api/health", "")

	if err := NewHealthHandler(nil).Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "{\"status\":\"ok\",\"live\":true}\n" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	_, c, rec := newJSONContext(http.MethodGet, "/api/health/ready", "")
	if err := NewHealthHandler(map[string]HealthCheck{"sqlite": ok, "redis": ok}).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	_, c, rec = newJSONContext(http.MethodGet, "/api/health/ready", "")
	if err := NewHealthHandler(map[string]HealthCheck{"sqlite": ok, "redis": down}).Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Status != "degraded" || resp.Dependencies["redis"].Status != "unhealthy" || resp.Dependencies["sqlite"].Status != "ok" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
