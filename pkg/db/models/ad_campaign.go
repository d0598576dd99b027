package models

import (
	"time"

	"github.com/google/uuid"
)

// AdCampaign mirrors the platform campaign object as synced by the connectors.
type AdCampaign struct {
	ID                  uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID           uuid.UUID `gorm:"column:account_id;type:uuid;not null;index"`
	ExternalID          string    `gorm:"column:external_id;not null"`
	Name                string    `gorm:"column:name;not null"`
	Status              string    `gorm:"column:status;not null"`
	Objective           *string   `gorm:"column:objective"`
	DailyBudgetCents    int64     `gorm:"column:daily_budget_cents;not null;default:0"`
	LifetimeBudgetCents int64     `gorm:"column:lifetime_budget_cents;not null;default:0"`
	AdSets              []AdSet   `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (AdCampaign) TableName() string { return "ad_campaigns" }
