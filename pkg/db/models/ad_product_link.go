package models

import (
	"time"

	"github.com/google/uuid"
)

// AdProductLink maps an ad to a Shopify product it advertises. Used only for
// the linked-product count attached to resolved conversion records.
type AdProductLink struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	AdID             uuid.UUID `gorm:"column:ad_id;type:uuid;not null;index"`
	ShopifyProductID uuid.UUID `gorm:"column:shopify_product_id;type:uuid;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralization.
func (AdProductLink) TableName() string { return "ad_product_links" }
