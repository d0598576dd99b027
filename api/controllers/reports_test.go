package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/api/middleware"
	"github.com/revoa/analytics-backend/internal/reports"
)

type stubReportsService struct {
	lastUserID uuid.UUID
	lastRange  reports.DateRange
	overview   *reports.Overview
	creatives  []reports.CreativeRow
	enrich     *reports.EnrichResult
	err        error
}

func (s *stubReportsService) Overview(ctx context.Context, userID uuid.UUID, r reports.DateRange) (*reports.Overview, error) {
	s.lastUserID = userID
	s.lastRange = r
	if s.err != nil {
		return nil, s.err
	}
	if s.overview != nil {
		return s.overview, nil
	}
	return &reports.Overview{Daily: []reports.DailyPoint{}}, nil
}

func (s *stubReportsService) CreativePerformance(ctx context.Context, userID uuid.UUID, r reports.DateRange) ([]reports.CreativeRow, error) {
	s.lastUserID = userID
	s.lastRange = r
	if s.creatives != nil {
		return s.creatives, s.err
	}
	return []reports.CreativeRow{}, s.err
}

func (s *stubReportsService) CampaignPerformance(ctx context.Context, userID uuid.UUID, r reports.DateRange) ([]reports.EntityRow, error) {
	s.lastUserID = userID
	s.lastRange = r
	return []reports.EntityRow{}, s.err
}

func (s *stubReportsService) AdSetPerformance(ctx context.Context, userID uuid.UUID, r reports.DateRange) ([]reports.EntityRow, error) {
	s.lastUserID = userID
	s.lastRange = r
	return []reports.EntityRow{}, s.err
}

func (s *stubReportsService) ProfitMetrics(ctx context.Context, userID uuid.UUID, r reports.DateRange) (*reports.ProfitMetrics, error) {
	s.lastUserID = userID
	s.lastRange = r
	return &reports.ProfitMetrics{Daily: []reports.DailyProfitPoint{}}, s.err
}

func (s *stubReportsService) AdProfitBreakdown(ctx context.Context, userID uuid.UUID, r reports.DateRange) ([]reports.AdProfitRow, error) {
	s.lastUserID = userID
	s.lastRange = r
	return []reports.AdProfitRow{}, s.err
}

func (s *stubReportsService) EnrichMetricsWithProfit(ctx context.Context, userID uuid.UUID, r reports.DateRange) (*reports.EnrichResult, error) {
	s.lastUserID = userID
	s.lastRange = r
	if s.err != nil {
		return nil, s.err
	}
	if s.enrich != nil {
		return s.enrich, nil
	}
	return &reports.EnrichResult{}, nil
}

func authedRequest(method, target string, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestReportsOverviewRequiresUserContext(t *testing.T) {
	service := &stubReportsService{}
	handler := ReportsOverview(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/overview", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without user context, got %d", rec.Code)
	}
}

func TestReportsOverviewRejectsMalformedUserID(t *testing.T) {
	service := &stubReportsService{}
	handler := ReportsOverview(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/overview", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), "not-a-uuid"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for malformed user id, got %d", rec.Code)
	}
}

func TestReportsOverviewPassesExplicitRange(t *testing.T) {
	service := &stubReportsService{}
	handler := ReportsOverview(service, nil)
	userID := uuid.New()

	req := authedRequest(http.MethodGet, "/api/v1/reports/overview?start=2026-08-01&end=2026-08-07", "", userID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if service.lastUserID != userID {
		t.Fatalf("expected user %s, got %s", userID, service.lastUserID)
	}
	if service.lastRange.StartDate != "2026-08-01" || service.lastRange.EndDate != "2026-08-07" {
		t.Fatalf("unexpected range: %+v", service.lastRange)
	}
}

func TestReportsOverviewDefaultsToTrailingMonth(t *testing.T) {
	prev := timeNowUTC
	timeNowUTC = func() time.Time { return time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC) }
	defer func() { timeNowUTC = prev }()

	service := &stubReportsService{}
	handler := ReportsOverview(service, nil)

	req := authedRequest(http.MethodGet, "/api/v1/reports/overview", "", uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if service.lastRange.StartDate != "2026-07-22" || service.lastRange.EndDate != "2026-08-20" {
		t.Fatalf("unexpected default range: %+v", service.lastRange)
	}
}

func TestReportsOverviewRejectsInvalidRange(t *testing.T) {
	service := &stubReportsService{}
	handler := ReportsOverview(service, nil)

	cases := []string{
		"?start=2026-08-07",
		"?start=bogus&end=2026-08-07",
		"?start=2026-08-07&end=2026-08-01",
	}
	for _, query := range cases {
		req := authedRequest(http.MethodGet, "/api/v1/reports/overview"+query, "", uuid.New())
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("query %q: expected 400, got %d", query, rec.Code)
		}
	}
}

func TestReportsCreativesLimitTruncatesRanking(t *testing.T) {
	service := &stubReportsService{creatives: []reports.CreativeRow{
		{AdID: uuid.New(), Name: "first"},
		{AdID: uuid.New(), Name: "second"},
		{AdID: uuid.New(), Name: "third"},
	}}
	handler := ReportsCreatives(service, nil)

	req := authedRequest(http.MethodGet, "/api/v1/reports/creatives?start=2026-08-01&end=2026-08-07&limit=2", "", uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Data []reports.CreativeRow `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Data) != 2 {
		t.Fatalf("expected 2 rows after limit, got %d", len(payload.Data))
	}
	if payload.Data[0].Name != "first" || payload.Data[1].Name != "second" {
		t.Fatalf("limit must keep the leading rows: %+v", payload.Data)
	}
}

func TestReportsCreativesOmittedLimitReturnsAll(t *testing.T) {
	service := &stubReportsService{creatives: []reports.CreativeRow{
		{AdID: uuid.New()}, {AdID: uuid.New()}, {AdID: uuid.New()},
	}}
	handler := ReportsCreatives(service, nil)

	req := authedRequest(http.MethodGet, "/api/v1/reports/creatives?start=2026-08-01&end=2026-08-07", "", uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Data []reports.CreativeRow `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Data) != 3 {
		t.Fatalf("expected full ranking without limit, got %d rows", len(payload.Data))
	}
}

func TestReportsCreativesRejectsBadLimit(t *testing.T) {
	service := &stubReportsService{}
	handler := ReportsCreatives(service, nil)

	for _, query := range []string{"&limit=abc", "&limit=-1", "&limit=501"} {
		req := authedRequest(http.MethodGet, "/api/v1/reports/creatives?start=2026-08-01&end=2026-08-07"+query, "", uuid.New())
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("query %q: expected 400, got %d", query, rec.Code)
		}
	}
}

func TestReportsEnrichProfit(t *testing.T) {
	service := &stubReportsService{enrich: &reports.EnrichResult{Updated: 4, Skipped: 1}}
	handler := ReportsEnrichProfit(service, nil)
	userID := uuid.New()

	req := authedRequest(http.MethodPost, "/api/v1/reports/profit/enrich", `{"start":"2026-08-01","end":"2026-08-07"}`, userID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Data reports.EnrichResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.Updated != 4 || payload.Data.Skipped != 1 {
		t.Fatalf("unexpected result: %+v", payload.Data)
	}
	if service.lastRange.StartDate != "2026-08-01" {
		t.Fatalf("unexpected range: %+v", service.lastRange)
	}
}

func TestReportsEnrichProfitRejectsInvertedRange(t *testing.T) {
	service := &stubReportsService{}
	handler := ReportsEnrichProfit(service, nil)

	req := authedRequest(http.MethodPost, "/api/v1/reports/profit/enrich", `{"start":"2026-08-07","end":"2026-08-01"}`, uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestReportsEnrichProfitRejectsMissingFields(t *testing.T) {
	service := &stubReportsService{}
	handler := ReportsEnrichProfit(service, nil)

	req := authedRequest(http.MethodPost, "/api/v1/reports/profit/enrich", `{"start":"2026-08-01"}`, uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
