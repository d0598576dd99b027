package patterns

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revoa/analytics-backend/pkg/enums"
)

// PlatformDayRow is one platform's ad-metric aggregate for a single day.
type PlatformDayRow struct {
	Date        string           `gorm:"column:day"`
	Platform    enums.AdPlatform `gorm:"column:platform"`
	Spend       float64          `gorm:"column:spend"`
	Conversions float64          `gorm:"column:conversions"`
	Revenue     float64          `gorm:"column:revenue"`
}

// DayFinancialRow is one day of store-level order money.
type DayFinancialRow struct {
	Date    string  `gorm:"column:day"`
	Revenue float64 `gorm:"column:revenue"`
	COGS    float64 `gorm:"column:cogs"`
}

// PurchaseEventRow is a raw purchase pixel event used for hourly bucketing.
type PurchaseEventRow struct {
	OccurredAt time.Time `gorm:"column:occurred_at"`
	OrderValue float64   `gorm:"column:order_value"`
}

// Repository loads the pre-aggregated inputs the analyzer runs over.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindDailyPlatformMetrics(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]PlatformDayRow, error)
	FindDailyOrderFinancials(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]DayFinancialRow, error)
	FindPurchaseEvents(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]PurchaseEventRow, error)
}

// Service assembles daily metrics and runs the pattern analyses.
type Service interface {
	DailyMetrics(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]DailyMetric, error)
	Suggestions(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]Suggestion, error)
}
