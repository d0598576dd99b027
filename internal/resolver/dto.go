package resolver

import (
	"time"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/pkg/enums"
)

// ResolveInput scopes a resolution run to one user's ads over a date range.
// Dates are inclusive ISO days (YYYY-MM-DD).
type ResolveInput struct {
	UserID     uuid.UUID
	AccountIDs []uuid.UUID
	AdIDs      []uuid.UUID
	StartDate  string
	EndDate    string
}

// ResolvedConversion is the per-ad output of a resolution run. Exactly one
// source contributes to each record; a record whose HasData is false carries
// zeroes and Source none.
type ResolvedConversion struct {
	AdID               uuid.UUID              `json:"ad_id"`
	Conversions        float64                `json:"conversions"`
	ConversionValue    float64                `json:"conversion_value"`
	ConversionRate     float64                `json:"conversion_rate"`
	TotalCOGS          float64                `json:"total_cogs"`
	Source             enums.ConversionSource `json:"source"`
	HasData            bool                   `json:"has_data"`
	LinkedProductCount int                    `json:"linked_product_count"`
}

// AttributedConversion is a joined ad_conversions row scoped to the caller's accounts.
type AttributedConversion struct {
	AdID            uuid.UUID
	ShopifyOrderID  uuid.UUID
	ConversionValue float64
	OccurredAt      time.Time
}

// MetricTotals is the platform-reported aggregate for one ad over the range.
type MetricTotals struct {
	Spend           float64
	Impressions     int64
	Clicks          int64
	Conversions     float64
	ConversionValue float64
}

type sourceTotals struct {
	conversions float64
	value       float64
	cogs        float64
	clicks      float64
}
