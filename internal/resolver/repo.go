package resolver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revoa/analytics-backend/pkg/batch"
	"github.com/revoa/analytics-backend/pkg/db/models"
	"github.com/revoa/analytics-backend/pkg/enums"
)

type repository struct {
	db        *gorm.DB
	batchSize int
}

// NewRepository builds a resolver repository bound to the provided DB.
// batchSize caps IN-list chunks; zero or negative falls back to the default.
func NewRepository(db *gorm.DB, batchSize int) Repository {
	if batchSize <= 0 {
		batchSize = batch.DefaultSize
	}
	return &repository{db: db, batchSize: batchSize}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, batchSize: r.batchSize}
}

func (r *repository) FindPurchasePixelEvents(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]models.PixelEvent, error) {
	from, to, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var events []models.PixelEvent
	err = r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("event_name = ?", enums.PixelEventPurchase).
		Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Order("occurred_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) FindAdsByIDs(ctx context.Context, adIDs []uuid.UUID) ([]models.Ad, error) {
	ads := make([]models.Ad, 0, len(adIDs))
	err := batch.ForEach(adIDs, r.batchSize, func(chunk []uuid.UUID) error {
		var page []models.Ad
		if err := r.db.WithContext(ctx).Where("id IN ?", chunk).Find(&page).Error; err != nil {
			return err
		}
		ads = append(ads, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ads, nil
}

func (r *repository) FindAttributedConversions(ctx context.Context, accountIDs []uuid.UUID, startDate, endDate string) ([]AttributedConversion, error) {
	from, to, err := parseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	var rows []AttributedConversion
	err = batch.ForEach(accountIDs, r.batchSize, func(chunk []uuid.UUID) error {
		var page []AttributedConversion
		err := r.db.WithContext(ctx).
			Table("ad_conversions").
			Select("ad_conversions.ad_id AS ad_id, ad_conversions.shopify_order_id AS shopify_order_id, ad_conversions.conversion_value AS conversion_value, ad_conversions.occurred_at AS occurred_at").
			Joins("JOIN ads ON ads.id = ad_conversions.ad_id").
			Joins("JOIN ad_sets ON ad_sets.id = ads.ad_set_id").
			Joins("JOIN ad_campaigns ON ad_campaigns.id = ad_sets.campaign_id").
			Where("ad_campaigns.account_id IN ?", chunk).
			Where("ad_conversions.occurred_at >= ? AND ad_conversions.occurred_at < ?", from, to).
			Scan(&page).Error
		if err != nil {
			return err
		}
		rows = append(rows, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindOrderCOGS(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]float64, error) {
	type cogsRow struct {
		OrderID uuid.UUID `gorm:"column:order_id"`
		COGS    float64   `gorm:"column:cogs"`
	}

	out := make(map[uuid.UUID]float64, len(orderIDs))
	err := batch.ForEach(orderIDs, r.batchSize, func(chunk []uuid.UUID) error {
		var page []cogsRow
		err := r.db.WithContext(ctx).
			Table("order_line_items").
			Select("order_id, COALESCE(SUM(COALESCE(unit_cost, 0) * quantity), 0) AS cogs").
			Where("order_id IN ?", chunk).
			Group("order_id").
			Scan(&page).Error
		if err != nil {
			return err
		}
		for _, row := range page {
			out[row.OrderID] = row.COGS
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) FindAdMetricTotals(ctx context.Context, adIDs []uuid.UUID, startDate, endDate string) (map[uuid.UUID]MetricTotals, error) {
	type totalsRow struct {
		EntityID        uuid.UUID `gorm:"column:entity_id"`
		Spend           float64   `gorm:"column:spend"`
		Impressions     int64     `gorm:"column:impressions"`
		Clicks          int64     `gorm:"column:clicks"`
		Conversions     float64   `gorm:"column:conversions"`
		ConversionValue float64   `gorm:"column:conversion_value"`
	}

	out := make(map[uuid.UUID]MetricTotals, len(adIDs))
	err := batch.ForEach(adIDs, r.batchSize, func(chunk []uuid.UUID) error {
		var page []totalsRow
		err := r.db.WithContext(ctx).
			Table("ad_metrics").
			Select("entity_id, COALESCE(SUM(spend), 0) AS spend, COALESCE(SUM(impressions), 0) AS impressions, COALESCE(SUM(clicks), 0) AS clicks, COALESCE(SUM(conversions), 0) AS conversions, COALESCE(SUM(conversion_value), 0) AS conversion_value").
			Where("entity_type = ?", enums.MetricEntityAd).
			Where("entity_id IN ?", chunk).
			Where("date >= ? AND date <= ?", startDate, endDate).
			Group("entity_id").
			Scan(&page).Error
		if err != nil {
			return err
		}
		for _, row := range page {
			out[row.EntityID] = MetricTotals{
				Spend:           row.Spend,
				Impressions:     row.Impressions,
				Clicks:          row.Clicks,
				Conversions:     row.Conversions,
				ConversionValue: row.ConversionValue,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) CountLinkedProducts(ctx context.Context, userID uuid.UUID, adIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	type countRow struct {
		AdID  uuid.UUID `gorm:"column:ad_id"`
		Count int       `gorm:"column:count"`
	}

	out := make(map[uuid.UUID]int, len(adIDs))
	err := batch.ForEach(adIDs, r.batchSize, func(chunk []uuid.UUID) error {
		var page []countRow
		err := r.db.WithContext(ctx).
			Table("ad_product_links").
			Select("ad_id, COUNT(*) AS count").
			Where("user_id = ?", userID).
			Where("ad_id IN ?", chunk).
			Group("ad_id").
			Scan(&page).Error
		if err != nil {
			return err
		}
		for _, row := range page {
			out[row.AdID] = row.Count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// parseDateRange converts inclusive ISO dates into a half-open UTC timestamp range.
func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(time.DateOnly, startDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	last, err := time.ParseInLocation(time.DateOnly, endDate, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	to := last.AddDate(0, 0, 1)
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %q precedes start date %q", endDate, startDate)
	}
	return from, to, nil
}
