package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShopifyOrder is the order header synced from the merchant's store.
type ShopifyOrder struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	ExternalOrderNumber string          `gorm:"column:external_order_number;not null"`
	TotalPrice          decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	Currency            string          `gorm:"column:currency;not null;default:'USD'"`
	OrderedAt           time.Time       `gorm:"column:ordered_at;not null;index"`
	LineItems           []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (ShopifyOrder) TableName() string { return "shopify_orders" }
