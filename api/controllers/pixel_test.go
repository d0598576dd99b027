package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/internal/pixel"
	pkgerrors "github.com/revoa/analytics-backend/pkg/errors"
)

type stubIngestor struct {
	accepted []pixel.EventEnvelope
	err      error
}

func (s *stubIngestor) Accept(ctx context.Context, envelope pixel.EventEnvelope) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.accepted = append(s.accepted, envelope)
	return envelope.EventID, nil
}

func TestPixelEventsAcceptsValidEnvelope(t *testing.T) {
	ingest := &stubIngestor{}
	handler := PixelEvents(ingest, nil)
	userID := uuid.New()

	body := `{"event_id":"evt-1","user_id":"` + userID.String() + `","event_name":"Purchase","order_value":89.50,"order_number":"1042"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pixel/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(ingest.accepted) != 1 {
		t.Fatalf("expected one accepted event, got %d", len(ingest.accepted))
	}
	if ingest.accepted[0].OrderNumber != "1042" {
		t.Fatalf("unexpected envelope: %+v", ingest.accepted[0])
	}

	var payload struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data["event_id"] != "evt-1" {
		t.Fatalf("expected echoed event id, got %v", payload.Data)
	}
}

func TestPixelEventsRejectsMalformedBody(t *testing.T) {
	ingest := &stubIngestor{}
	handler := PixelEvents(ingest, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pixel/events", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(ingest.accepted) != 0 {
		t.Fatal("expected no events accepted")
	}
}

func TestPixelEventsRejectsMissingRequiredFields(t *testing.T) {
	ingest := &stubIngestor{}
	handler := PixelEvents(ingest, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pixel/events", strings.NewReader(`{"event_name":"Purchase"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPixelEventsSurfacesPublisherOutage(t *testing.T) {
	ingest := &stubIngestor{err: pkgerrors.New(pkgerrors.CodeDependency, "publishing pixel event")}
	handler := PixelEvents(ingest, nil)
	userID := uuid.New()

	body := `{"event_id":"evt-2","user_id":"` + userID.String() + `","event_name":"PageView"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pixel/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
