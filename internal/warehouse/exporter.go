package warehouse

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/internal/reports"
	pkgerrors "github.com/revoa/analytics-backend/pkg/errors"
	"github.com/revoa/analytics-backend/pkg/logger"
)

type metricInserter interface {
	Insert(ctx context.Context, row ResolvedMetricRow) error
	Flush(ctx context.Context) error
}

// Exporter streams resolved per-ad profit rows into the warehouse after an
// enrichment pass. It snapshots the same numbers the API serves so downstream
// analysis never recomputes attribution.
type Exporter struct {
	writer  metricInserter
	reports reports.Service
	logg    *logger.Logger
	now     func() time.Time
}

// NewExporter builds the warehouse exporter.
func NewExporter(writer *Writer, svc reports.Service, logg *logger.Logger) (*Exporter, error) {
	if writer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "warehouse writer is required")
	}
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "reports service is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &Exporter{writer: writer, reports: svc, logg: logg, now: time.Now}, nil
}

// ExportProfitBreakdown writes one warehouse row per ad for the window and
// returns the number of rows exported.
func (e *Exporter) ExportProfitBreakdown(ctx context.Context, userID uuid.UUID, r reports.DateRange) (int, error) {
	rows, err := e.reports.AdProfitBreakdown(ctx, userID, r)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading profit breakdown for export")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	exportedAt := e.now().UTC()
	for _, row := range rows {
		metric := ResolvedMetricRow{
			UserID:       userID.String(),
			AdID:         row.AdID.String(),
			AdName:       row.Name,
			StartDate:    r.StartDate,
			EndDate:      r.EndDate,
			Revenue:      row.Revenue,
			COGS:         row.COGS,
			AdSpend:      row.AdSpend,
			Profit:       row.Profit,
			ProfitMargin: row.ProfitMargin,
			NetROAS:      row.NetROAS,
			Source:       row.Source.String(),
			HasData:      row.HasData,
			ExportedAt:   exportedAt,
		}
		if err := e.writer.Insert(ctx, metric); err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "writing warehouse rows")
		}
	}
	if err := e.writer.Flush(ctx); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flushing warehouse rows")
	}

	e.logg.Info(e.logg.WithField(ctx, "rows", len(rows)), "resolved metrics exported to warehouse")
	return len(rows), nil
}
