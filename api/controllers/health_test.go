package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/revoa/analytics-backend/pkg/config"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(ctx context.Context) error {
	return f.err
}

func testAppConfig() *config.Config {
	return &config.Config{App: config.AppConfig{Env: "test"}}
}

func TestHealthLive(t *testing.T) {
	handler := HealthLive(testAppConfig())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Revoa-Env") != "test" {
		t.Fatal("expected env header")
	}
}

func TestHealthReadyAllDependenciesUp(t *testing.T) {
	handler := HealthReady(testAppConfig(), nil,
		HealthCheck{Name: "postgres", Pinger: fakePinger{}},
		HealthCheck{Name: "redis", Pinger: fakePinger{}},
	)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHealthReadyRequiredFailureIsUnready(t *testing.T) {
	handler := HealthReady(testAppConfig(), nil,
		HealthCheck{Name: "postgres", Pinger: fakePinger{err: errors.New("refused")}},
		HealthCheck{Name: "redis", Pinger: fakePinger{}},
	)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHealthReadyOptionalFailureStaysReady(t *testing.T) {
	handler := HealthReady(testAppConfig(), nil,
		HealthCheck{Name: "postgres", Pinger: fakePinger{}},
		HealthCheck{Name: "bigquery", Pinger: fakePinger{err: errors.New("quota")}, Optional: true},
	)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with degraded optional dependency, got %d", rec.Code)
	}
}

func TestHealthReadySkipsNilPingers(t *testing.T) {
	handler := HealthReady(testAppConfig(), nil,
		HealthCheck{Name: "postgres", Pinger: fakePinger{}},
		HealthCheck{Name: "pubsub", Pinger: nil, Optional: true},
	)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
