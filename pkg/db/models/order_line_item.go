package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineItem carries the unit cost used for COGS. UnitCost may be null
// when the supplier quote has not landed yet; COGS math treats that as zero.
type OrderLineItem struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID        `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID *uuid.UUID       `gorm:"column:product_id;type:uuid"`
	Title     string           `gorm:"column:title;not null"`
	Quantity  int              `gorm:"column:quantity;not null"`
	UnitCost  *decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,2)"`
	UnitPrice decimal.Decimal  `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralization.
func (OrderLineItem) TableName() string { return "order_line_items" }
