package warehouse

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/internal/reports"
)

type stubEnricher struct {
	reports.Service
	result *reports.EnrichResult
	err    error
}

func (s stubEnricher) EnrichMetricsWithProfit(ctx context.Context, userID uuid.UUID, r reports.DateRange) (*reports.EnrichResult, error) {
	return s.result, s.err
}

type stubExporter struct {
	calls int
	rows  int
	err   error
}

func (s *stubExporter) ExportProfitBreakdown(ctx context.Context, userID uuid.UUID, r reports.DateRange) (int, error) {
	s.calls++
	return s.rows, s.err
}

func TestExportingServiceExportsAfterEnrich(t *testing.T) {
	exporter := &stubExporter{rows: 3}
	svc := &ExportingService{
		Service:  stubEnricher{result: &reports.EnrichResult{Updated: 5}},
		exporter: exporter,
		logg:     testLogger(),
	}

	result, err := svc.EnrichMetricsWithProfit(context.Background(), uuid.New(), reports.DateRange{StartDate: "2026-08-01", EndDate: "2026-08-07"})
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if result.Updated != 5 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if exporter.calls != 1 {
		t.Fatalf("expected one export, got %d", exporter.calls)
	}
}

func TestExportingServiceSwallowsExportFailure(t *testing.T) {
	exporter := &stubExporter{err: errors.New("bigquery down")}
	svc := &ExportingService{
		Service:  stubEnricher{result: &reports.EnrichResult{Updated: 2}},
		exporter: exporter,
		logg:     testLogger(),
	}

	result, err := svc.EnrichMetricsWithProfit(context.Background(), uuid.New(), reports.DateRange{StartDate: "2026-08-01", EndDate: "2026-08-07"})
	if err != nil {
		t.Fatalf("expected export failure to be swallowed, got %v", err)
	}
	if result.Updated != 2 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestExportingServiceSkipsExportOnEnrichFailure(t *testing.T) {
	exporter := &stubExporter{}
	svc := &ExportingService{
		Service:  stubEnricher{err: errors.New("db down")},
		exporter: exporter,
		logg:     testLogger(),
	}

	if _, err := svc.EnrichMetricsWithProfit(context.Background(), uuid.New(), reports.DateRange{}); err == nil {
		t.Fatal("expected enrich error to propagate")
	}
	if exporter.calls != 0 {
		t.Fatal("expected no export after failed enrichment")
	}
}
