package reports

import (
	"context"

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

// NewRepository builds a reports repository bound to the provided DB.
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

func (r *repository) FindAccountsByPlatform(ctx context.Context, userID uuid.UUID, platform enums.AdPlatform) ([]models.AdAccount, error) {
	var accounts []models.AdAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("platform = ?", platform).
		Where("status = ?", enums.AdAccountStatusActive).
		Find(&accounts).Error
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *repository) FindAdsByAccounts(ctx context.Context, accountIDs []uuid.UUID) ([]AdContext, error) {
	var rows []AdContext
	err := batch.ForEach(accountIDs, r.batchSize, func(chunk []uuid.UUID) error {
		var page []AdContext
		err := r.db.WithContext(ctx).
			Table("ads").
			Select("ads.id AS ad_id, ad_campaigns.account_id AS account_id, ad_accounts.platform AS platform, ads.external_id AS external_id, ads.name AS name, ads.status AS status, ads.creative_type AS creative_type, ads.thumbnail_url AS thumbnail_url, ad_campaigns.name AS campaign_name, ad_sets.name AS ad_set_name").
			Joins("JOIN ad_sets ON ad_sets.id = ads.ad_set_id").
			Joins("JOIN ad_campaigns ON ad_campaigns.id = ad_sets.campaign_id").
			Joins("JOIN ad_accounts ON ad_accounts.id = ad_campaigns.account_id").
			Where("ad_campaigns.account_id IN ?", chunk).
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

func (r *repository) FindCampaignsByAccounts(ctx context.Context, accountIDs []uuid.UUID) ([]EntityContext, error) {
	var rows []EntityContext
	err := batch.ForEach(accountIDs, r.batchSize, func(chunk []uuid.UUID) error {
		var page []EntityContext
		err := r.db.WithContext(ctx).
			Table("ad_campaigns").
			Select("ad_campaigns.id AS id, ad_accounts.platform AS platform, ad_campaigns.name AS name, ad_campaigns.status AS status").
			Joins("JOIN ad_accounts ON ad_accounts.id = ad_campaigns.account_id").
			Where("ad_campaigns.account_id IN ?", chunk).
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

func (r *repository) FindAdSetsByAccounts(ctx context.Context, accountIDs []uuid.UUID) ([]EntityContext, error) {
	var rows []EntityContext
	err := batch.ForEach(accountIDs, r.batchSize, func(chunk []uuid.UUID) error {
		var page []EntityContext
		err := r.db.WithContext(ctx).
			Table("ad_sets").
			Select("ad_sets.id AS id, ad_accounts.platform AS platform, ad_sets.name AS name, ad_sets.status AS status").
			Joins("JOIN ad_campaigns ON ad_campaigns.id = ad_sets.campaign_id").
			Joins("JOIN ad_accounts ON ad_accounts.id = ad_campaigns.account_id").
			Where("ad_campaigns.account_id IN ?", chunk).
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

func (r *repository) FindMetricRows(ctx context.Context, entityType enums.MetricEntityType, entityIDs []uuid.UUID, startDate, endDate string) ([]models.AdMetric, error) {
	var rows []models.AdMetric
	err := batch.ForEach(entityIDs, r.batchSize, func(chunk []uuid.UUID) error {
		var page []models.AdMetric
		err := r.db.WithContext(ctx).
			Where("entity_type = ?", entityType).
			Where("entity_id IN ?", chunk).
			Where("date >= ? AND date <= ?", startDate, endDate).
			Order("date ASC").
			Find(&page).Error
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

func (r *repository) FindDailyOrderFinancials(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]DailyFinancial, error) {
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

	out := make([]DailyFinancial, 0, len(revenue))
	for _, row := range revenue {
		out = append(out, DailyFinancial{Date: row.Day, Revenue: row.Revenue, COGS: cogsByDay[row.Day]})
	}
	return out, nil
}

func (r *repository) UpdateMetricProfit(ctx context.Context, metricID uuid.UUID, cogs, profit, margin float64) error {
	return r.db.WithContext(ctx).
		Model(&models.AdMetric{}).
		Where("id = ?", metricID).
		Updates(map[string]any{
			"cogs":          cogs,
			"profit":        profit,
			"profit_margin": margin,
		}).Error
}
