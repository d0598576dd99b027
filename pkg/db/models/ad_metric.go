package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/pkg/enums"
)

// AdMetric is one day of platform-reported performance for one entity.
// Rows are immutable historical facts; only the profit enrichment columns
// (cogs, profit, profit_margin) are ever written after insert.
type AdMetric struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EntityType      enums.MetricEntityType `gorm:"column:entity_type;type:metric_entity_type;not null;uniqueIndex:idx_ad_metrics_entity_date"`
	EntityID        uuid.UUID              `gorm:"column:entity_id;type:uuid;not null;uniqueIndex:idx_ad_metrics_entity_date"`
	Date            string                 `gorm:"column:date;type:date;not null;uniqueIndex:idx_ad_metrics_entity_date"`
	Spend           float64                `gorm:"column:spend;not null;default:0"`
	Impressions     int64                  `gorm:"column:impressions;not null;default:0"`
	Clicks          int64                  `gorm:"column:clicks;not null;default:0"`
	Conversions     float64                `gorm:"column:conversions;not null;default:0"`
	ConversionValue float64                `gorm:"column:conversion_value;not null;default:0"`
	COGS            *float64               `gorm:"column:cogs"`
	Profit          *float64               `gorm:"column:profit"`
	ProfitMargin    *float64               `gorm:"column:profit_margin"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (AdMetric) TableName() string { return "ad_metrics" }
