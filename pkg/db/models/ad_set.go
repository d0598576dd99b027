package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/pkg/types"
)

// AdSet mirrors the platform ad set / ad group object.
type AdSet struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID       uuid.UUID      `gorm:"column:campaign_id;type:uuid;not null;index"`
	ExternalID       string         `gorm:"column:external_id;not null"`
	Name             string         `gorm:"column:name;not null"`
	Status           string         `gorm:"column:status;not null"`
	DailyBudgetCents int64          `gorm:"column:daily_budget_cents;not null;default:0"`
	Targeting        *types.JSONMap `gorm:"column:targeting;type:jsonb;serializer:json"`
	Ads              []Ad           `gorm:"foreignKey:AdSetID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (AdSet) TableName() string { return "ad_sets" }
