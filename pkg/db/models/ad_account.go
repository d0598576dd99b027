package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/pkg/enums"
)

// AdAccount is a platform ad account linked by a user through the connector flow.
type AdAccount struct {
	ID                uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Platform          enums.AdPlatform      `gorm:"column:platform;type:ad_platform;not null"`
	ExternalAccountID string                `gorm:"column:external_account_id;not null"`
	Name              string                `gorm:"column:name;not null"`
	Status            enums.AdAccountStatus `gorm:"column:status;type:ad_account_status;not null;default:'active'"`
	Currency          string                `gorm:"column:currency;not null;default:'USD'"`
	LastSyncedAt      *time.Time            `gorm:"column:last_synced_at"`
	Campaigns         []AdCampaign          `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (AdAccount) TableName() string { return "ad_accounts" }
