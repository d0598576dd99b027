package warehouse

import (
	"context"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/internal/reports"
	pkgerrors "github.com/revoa/analytics-backend/pkg/errors"
	"github.com/revoa/analytics-backend/pkg/logger"
)

type breakdownExporter interface {
	ExportProfitBreakdown(ctx context.Context, userID uuid.UUID, r reports.DateRange) (int, error)
}

// ExportingService decorates the reports service so that a successful profit
// enrichment also snapshots the per-ad breakdown to the warehouse. Export
// failures are logged and swallowed: the enrichment already committed.
type ExportingService struct {
	reports.Service
	exporter breakdownExporter
	logg     *logger.Logger
}

func NewExportingService(svc reports.Service, exporter *Exporter, logg *logger.Logger) (*ExportingService, error) {
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reports service is required")
	}
	if exporter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "exporter is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &ExportingService{Service: svc, exporter: exporter, logg: logg}, nil
}

func (s *ExportingService) EnrichMetricsWithProfit(ctx context.Context, userID uuid.UUID, r reports.DateRange) (*reports.EnrichResult, error) {
	result, err := s.Service.EnrichMetricsWithProfit(ctx, userID, r)
	if err != nil {
		return nil, err
	}

	rows, exportErr := s.exporter.ExportProfitBreakdown(ctx, userID, r)
	if exportErr != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", exportErr.Error()), "warehouse export failed after enrichment")
		return result, nil
	}
	s.logg.Info(s.logg.WithField(ctx, "rows", rows), "warehouse export completed")
	return result, nil
}
