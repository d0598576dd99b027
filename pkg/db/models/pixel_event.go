package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/pkg/enums"
	"github.com/revoa/analytics-backend/pkg/types"
)

// PixelEvent is a first-party tracking event captured on the merchant's
// storefront. Rows are immutable once recorded.
type PixelEvent struct {
	ID          uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	EventID     string               `gorm:"column:event_id;not null;uniqueIndex"`
	UserID      uuid.UUID            `gorm:"column:user_id;type:uuid;not null;index"`
	EventName   enums.PixelEventName `gorm:"column:event_name;not null"`
	OrderValue  float64              `gorm:"column:order_value;not null;default:0"`
	Currency    string               `gorm:"column:currency;not null;default:'USD'"`
	UTMSource   *string              `gorm:"column:utm_source"`
	UTMMedium   *string              `gorm:"column:utm_medium"`
	UTMCampaign *string              `gorm:"column:utm_campaign"`
	UTMTerm     *string              `gorm:"column:utm_term"`
	UTMContent  *string              `gorm:"column:utm_content"`
	FBClickID   *string              `gorm:"column:fbclid"`
	GClickID    *string              `gorm:"column:gclid"`
	TTClickID   *string              `gorm:"column:ttclid"`
	Payload     *types.JSONMap       `gorm:"column:payload;type:jsonb;serializer:json"`
	OccurredAt  time.Time            `gorm:"column:occurred_at;not null;index"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralization.
func (PixelEvent) TableName() string { return "pixel_events" }
