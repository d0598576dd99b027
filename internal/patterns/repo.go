package patterns

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revoa/analytics-backend/pkg/enums"
	pkgerrors "github.com/revoa/analytics-backend/pkg/errors"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a patterns repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindDailyPlatformMetrics(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]PlatformDayRow, error) {
	var rows []PlatformDayRow
	err := r.db.WithContext(ctx).
		Table("ad_metrics").
		Select("ad_metrics.date AS day, ad_accounts.platform AS platform, COALESCE(SUM(ad_metrics.spend), 0) AS spend, COALESCE(SUM(ad_metrics.conversions), 0) AS conversions, COALESCE(SUM(ad_metrics.conversion_value), 0) AS revenue").
		Joins("JOIN ads ON ads.id = ad_metrics.entity_id").
		Joins("JOIN ad_sets ON ad_sets.id = ads.ad_set_id").
		Joins("JOIN ad_campaigns ON ad_campaigns.id = ad_sets.campaign_id").
		Joins("JOIN ad_accounts ON ad_accounts.id = ad_campaigns.account_id").
		Where("ad_metrics.entity_type = ?", enums.MetricEntityAd).
		Where("ad_accounts.user_id = ?", userID).
		Where("ad_metrics.date >= ? AND ad_metrics.date <= ?", startDate, endDate).
		Group("ad_metrics.date, ad_accounts.platform").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindDailyOrderFinancials(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]DayFinancialRow, error) {
	type revenueRow struct {
		Day     string  `gorm:"column:day"`
		Revenue float64 `gorm:"column:revenue"`
	}
	type cogsRow struct {
		Day  string  `gorm:"column:day"`
		COGS float64 `gorm:"column:cogs"`
	}

	var revenue []revenueRow
	err := r.db.WithContext(ctx).
		Table("shopify_orders").
		Select("date(ordered_at) AS day, COALESCE(SUM(total_price), 0) AS revenue").
		Where("user_id = ?", userID).
		Where("date(ordered_at) >= ? AND date(ordered_at) <= ?", startDate, endDate).
		Group("date(ordered_at)").
		Order("day ASC").
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}

	var cogs []cogsRow
	err = r.db.WithContext(ctx).
		Table("order_line_items").
		Select("date(shopify_orders.ordered_at) AS day, COALESCE(SUM(COALESCE(order_line_items.unit_cost, 0) * order_line_items.quantity), 0) AS cogs").
		Joins("JOIN shopify_orders ON shopify_orders.id = order_line_items.order_id").
		Where("shopify_orders.user_id = ?", userID).
		Where("date(shopify_orders.ordered_at) >= ? AND date(shopify_orders.ordered_at) <= ?", startDate, endDate).
		Group("date(shopify_orders.ordered_at)").
		Scan(&cogs).Error
	if err != nil {
		return nil, err
	}

	cogsByDay := make(map[string]float64, len(cogs))
	for _, row := range cogs {
		cogsByDay[row.Day] = row.COGS
	}

	out := make([]DayFinancialRow, 0, len(revenue))
	for _, row := range revenue {
		out = append(out, DayFinancialRow{Date: row.Day, Revenue: row.Revenue, COGS: cogsByDay[row.Day]})
	}
	return out, nil
}

func (r *repository) FindPurchaseEvents(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]PurchaseEventRow, error) {
	start, end, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var rows []PurchaseEventRow
	err = r.db.WithContext(ctx).
		Table("pixel_events").
		Select("occurred_at, order_value").
		Where("user_id = ?", userID).
		Where("event_name = ?", enums.PixelEventPurchase).
		Where("occurred_at >= ? AND occurred_at < ?", start, end).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// parseDateRange converts inclusive ISO dates to a half-open UTC timestamp range.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(time.DateOnly, startDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid start date %q", startDate))
	}
	end, err := time.ParseInLocation(time.DateOnly, endDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid end date %q", endDate))
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "end date precedes start date")
	}
	return start, end.AddDate(0, 0, 1), nil
}
