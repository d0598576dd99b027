package reports

import (
	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/pkg/enums"
)

// DateRange is an inclusive ISO day range (YYYY-MM-DD).
type DateRange struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// Totals is the common additive metric block.
type Totals struct {
	Spend           float64 `json:"spend"`
	Impressions     int64   `json:"impressions"`
	Clicks          int64   `json:"clicks"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
}

// Ratios are derived from Totals and are always recomputed, never stored.
type Ratios struct {
	CTR  float64 `json:"ctr"`
	CPC  float64 `json:"cpc"`
	CPA  float64 `json:"cpa"`
	CVR  float64 `json:"cvr"`
	ROAS float64 `json:"roas"`
}

// DailyPoint is one day of the overview time series. The ratio fields are
// derived per day; the COGS behind Profit follows the period-level
// revenue-share apportionment, not per-day landed cost.
type DailyPoint struct {
	Date            string  `json:"date"`
	Spend           float64 `json:"spend"`
	Impressions     int64   `json:"impressions"`
	Clicks          int64   `json:"clicks"`
	Conversions     float64 `json:"conversions"`
	ConversionValue float64 `json:"conversion_value"`
	CTR             float64 `json:"ctr"`
	CPA             float64 `json:"cpa"`
	CVR             float64 `json:"cvr"`
	ROAS            float64 `json:"roas"`
	Profit          float64 `json:"profit"`
	NetROAS         float64 `json:"net_roas"`
}

// Overview is the account-wide report. A caller with no connected accounts
// receives the zero value with HasData=false, never an error.
type Overview struct {
	Totals       Totals       `json:"totals"`
	Ratios       Ratios       `json:"ratios"`
	Daily        []DailyPoint `json:"daily"`
	AccountCount int          `json:"account_count"`
	AdCount      int          `json:"ad_count"`
	HasData      bool         `json:"has_data"`
}

// CreativeRow is one ad in the creative performance report.
type CreativeRow struct {
	AdID               uuid.UUID              `json:"ad_id"`
	Name               string                 `json:"name"`
	Platform           enums.AdPlatform       `json:"platform"`
	CampaignName       string                 `json:"campaign_name"`
	AdSetName          string                 `json:"ad_set_name"`
	CreativeType       string                 `json:"creative_type"`
	ThumbnailURL       *string                `json:"thumbnail_url,omitempty"`
	Totals             Totals                 `json:"totals"`
	Ratios             Ratios                 `json:"ratios"`
	COGS               float64                `json:"cogs"`
	Profit             float64                `json:"profit"`
	NetROAS            float64                `json:"net_roas"`
	ProfitMargin       float64                `json:"profit_margin"`
	PerformanceTier    enums.PerformanceTier  `json:"performance_tier"`
	FatigueScore       float64                `json:"fatigue_score"`
	Source             enums.ConversionSource `json:"conversion_source"`
	HasData            bool                   `json:"has_data"`
	LinkedProductCount int                    `json:"linked_product_count"`
}

// EntityRow is one campaign or ad set. These reports carry platform-reported
// numbers only: COGS is fixed at zero and profit flagged unavailable because
// order linkage exists at the ad level, not above it.
type EntityRow struct {
	ID              uuid.UUID             `json:"id"`
	Name            string                `json:"name"`
	Platform        enums.AdPlatform      `json:"platform"`
	Status          string                `json:"status"`
	Totals          Totals                `json:"totals"`
	Ratios          Ratios                `json:"ratios"`
	COGS            float64               `json:"cogs"`
	ProfitAvailable bool                  `json:"profit_available"`
	PerformanceTier enums.PerformanceTier `json:"performance_tier"`
}

// DailyProfitPoint is one apportioned day of the profit report.
type DailyProfitPoint struct {
	Date      string  `json:"date"`
	Revenue   float64 `json:"revenue"`
	COGS      float64 `json:"cogs"`
	AdSpend   float64 `json:"ad_spend"`
	NetProfit float64 `json:"net_profit"`
}

// ProfitMetrics is the store-level profit report.
type ProfitMetrics struct {
	Revenue      float64            `json:"revenue"`
	COGS         float64            `json:"cogs"`
	AdSpend      float64            `json:"ad_spend"`
	NetProfit    float64            `json:"net_profit"`
	ProfitMargin float64            `json:"profit_margin"`
	NetROAS      float64            `json:"net_roas"`
	Daily        []DailyProfitPoint `json:"daily"`
	HasData      bool               `json:"has_data"`
}

// AdProfitRow is the per-ad profit breakdown.
type AdProfitRow struct {
	AdID         uuid.UUID              `json:"ad_id"`
	Name         string                 `json:"name"`
	Revenue      float64                `json:"revenue"`
	COGS         float64                `json:"cogs"`
	AdSpend      float64                `json:"ad_spend"`
	Profit       float64                `json:"profit"`
	ProfitMargin float64                `json:"profit_margin"`
	NetROAS      float64                `json:"net_roas"`
	Source       enums.ConversionSource `json:"conversion_source"`
	HasData      bool                   `json:"has_data"`
}

// EnrichResult reports how many metric rows the enrichment pass updated.
type EnrichResult struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// AdContext is an ad joined with its ancestry, as read by the repository.
type AdContext struct {
	AdID         uuid.UUID        `gorm:"column:ad_id"`
	AccountID    uuid.UUID        `gorm:"column:account_id"`
	Platform     enums.AdPlatform `gorm:"column:platform"`
	ExternalID   string           `gorm:"column:external_id"`
	Name         string           `gorm:"column:name"`
	Status       string           `gorm:"column:status"`
	CreativeType string           `gorm:"column:creative_type"`
	ThumbnailURL *string          `gorm:"column:thumbnail_url"`
	CampaignName string           `gorm:"column:campaign_name"`
	AdSetName    string           `gorm:"column:ad_set_name"`
}

// EntityContext is a campaign or ad set joined with its platform.
type EntityContext struct {
	ID       uuid.UUID        `gorm:"column:id"`
	Platform enums.AdPlatform `gorm:"column:platform"`
	Name     string           `gorm:"column:name"`
	Status   string           `gorm:"column:status"`
}

// DailyFinancial is one day of order-side money, grouped by order date.
type DailyFinancial struct {
	Date    string  `gorm:"column:day"`
	Revenue float64 `gorm:"column:revenue"`
	COGS    float64 `gorm:"column:cogs"`
}
