package models

import (
	"time"

	"github.com/google/uuid"
)

// AdConversion is an explicit attribution link between an ad and a Shopify
// order, materialized from UTM parameters or platform click ids. It is the
// source of truth for the utm_attribution tier.
type AdConversion struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdID            uuid.UUID `gorm:"column:ad_id;type:uuid;not null;index"`
	ShopifyOrderID  uuid.UUID `gorm:"column:shopify_order_id;type:uuid;not null;index"`
	ConversionValue float64   `gorm:"column:conversion_value;not null;default:0"`
	OccurredAt      time.Time `gorm:"column:occurred_at;not null;index"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralization.
func (AdConversion) TableName() string { return "ad_conversions" }
