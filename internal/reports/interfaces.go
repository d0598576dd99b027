package reports

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revoa/analytics-backend/pkg/db/models"
	"github.com/revoa/analytics-backend/pkg/enums"
)

// Repository defines the reads and the single enrichment write the
// aggregation layer performs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindAccountsByPlatform(ctx context.Context, userID uuid.UUID, platform enums.AdPlatform) ([]models.AdAccount, error)
	FindAdsByAccounts(ctx context.Context, accountIDs []uuid.UUID) ([]AdContext, error)
	FindCampaignsByAccounts(ctx context.Context, accountIDs []uuid.UUID) ([]EntityContext, error)
	FindAdSetsByAccounts(ctx context.Context, accountIDs []uuid.UUID) ([]EntityContext, error)
	FindMetricRows(ctx context.Context, entityType enums.MetricEntityType, entityIDs []uuid.UUID, startDate, endDate string) ([]models.AdMetric, error)
	FindDailyOrderFinancials(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]DailyFinancial, error)
	UpdateMetricProfit(ctx context.Context, metricID uuid.UUID, cogs, profit, margin float64) error
}

// Service is the aggregation layer behind the report endpoints. Every
// operation returns a zero-valued struct (never nil) when the caller has no
// data in range, and a failed store read degrades to the same zero shape
// after logging instead of surfacing an error.
type Service interface {
	Overview(ctx context.Context, userID uuid.UUID, r DateRange) (*Overview, error)
	CreativePerformance(ctx context.Context, userID uuid.UUID, r DateRange) ([]CreativeRow, error)
	CampaignPerformance(ctx context.Context, userID uuid.UUID, r DateRange) ([]EntityRow, error)
	AdSetPerformance(ctx context.Context, userID uuid.UUID, r DateRange) ([]EntityRow, error)
	ProfitMetrics(ctx context.Context, userID uuid.UUID, r DateRange) (*ProfitMetrics, error)
	AdProfitBreakdown(ctx context.Context, userID uuid.UUID, r DateRange) ([]AdProfitRow, error)
	EnrichMetricsWithProfit(ctx context.Context, userID uuid.UUID, r DateRange) (*EnrichResult, error)
}
