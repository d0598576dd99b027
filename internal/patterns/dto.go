package patterns

import (
	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/pkg/enums"
)

// DailyMetric is one platform-day of blended store performance, the analyzer's
// only input. Hourly holds a 24-slot revenue breakdown when the caller has
// pixel-level resolution; all zeros otherwise.
type DailyMetric struct {
	Date        string           `json:"date"`
	Platform    enums.AdPlatform `json:"platform"`
	Revenue     float64          `json:"revenue"`
	COGS        float64          `json:"cogs"`
	AdSpend     float64          `json:"ad_spend"`
	NetProfit   float64          `json:"net_profit"`
	Conversions float64          `json:"conversions"`
	Hourly      [24]float64      `json:"hourly"`
}

// Availability grades how much history backs the analysis.
type Availability struct {
	Days       int                        `json:"days"`
	Tier       enums.DataAvailabilityTier `json:"tier"`
	Confidence float64                    `json:"confidence"`
}

// DayOfWeekPattern is one platform's average performance for one weekday.
type DayOfWeekPattern struct {
	Platform        enums.AdPlatform `json:"platform"`
	Weekday         string           `json:"weekday"`
	AvgRevenue      float64          `json:"avg_revenue"`
	AvgNetProfit    float64          `json:"avg_net_profit"`
	AvgSpend        float64          `json:"avg_spend"`
	AvgConversions  float64          `json:"avg_conversions"`
	ProfitPerDollar float64          `json:"profit_per_dollar"`
	DataPoints      int              `json:"data_points"`
}

// TimeWindowPattern is one platform's aggregate for one 6-hour window. The
// Avg fields apportion that platform's day-level metrics into the window by
// hourly revenue share.
type TimeWindowPattern struct {
	Platform        enums.AdPlatform `json:"platform"`
	Window          string           `json:"window"`
	StartHour       int              `json:"start_hour"`
	EndHour         int              `json:"end_hour"`
	Revenue         float64          `json:"revenue"`
	RevenueShare    float64          `json:"revenue_share"`
	AvgNetProfit    float64          `json:"avg_net_profit"`
	AvgSpend        float64          `json:"avg_spend"`
	AvgConversions  float64          `json:"avg_conversions"`
	ProfitPerDollar float64          `json:"profit_per_dollar"`
}

// PlatformTrend is one platform's week-over-week trajectory.
type PlatformTrend struct {
	Platform      enums.AdPlatform `json:"platform"`
	Last7Profit   float64          `json:"last_7_profit"`
	Prior7Profit  float64          `json:"prior_7_profit"`
	Trailing28Avg float64          `json:"trailing_28_avg"`
	ChangePct     float64          `json:"change_pct"`
	Momentum      enums.Momentum   `json:"momentum"`
	DaysOfData    int              `json:"days_of_data"`
}

// BudgetBucket is one of the equal-count spend buckets.
type BudgetBucket struct {
	AvgSpend       float64 `json:"avg_spend"`
	AvgProfit      float64 `json:"avg_profit"`
	MarginalReturn float64 `json:"marginal_return"`
	Days           int     `json:"days"`
}

// BudgetInsight is the diminishing-returns analysis for one platform.
type BudgetInsight struct {
	Platform                  enums.AdPlatform `json:"platform"`
	Buckets                   []BudgetBucket   `json:"buckets"`
	DiminishingThresholdSpend float64          `json:"diminishing_threshold_spend"`
	HasThreshold              bool             `json:"has_threshold"`
}

// PlatformPair is the profit correlation between two platforms.
type PlatformPair struct {
	PlatformA    enums.AdPlatform           `json:"platform_a"`
	PlatformB    enums.AdPlatform           `json:"platform_b"`
	Correlation  float64                    `json:"correlation"`
	OverlapDays  int                        `json:"overlap_days"`
	Relationship enums.PlatformRelationship `json:"relationship"`
}

// Suggestion is one ranked, human-readable recommendation.
type Suggestion struct {
	Kind       enums.SuggestionKind `json:"kind"`
	Priority   float64              `json:"priority"`
	Confidence float64              `json:"confidence"`
	Rationale  string               `json:"rationale"`
	UserID     uuid.UUID            `json:"user_id"`
}
