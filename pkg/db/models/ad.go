package models

import (
	"time"

	"github.com/google/uuid"
)

// Ad is a single creative. ExternalID is the platform-native identifier the
// pixel and UTM parameters reference; it is distinct from our internal id.
type Ad struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AdSetID      uuid.UUID `gorm:"column:ad_set_id;type:uuid;not null;index"`
	ExternalID   string    `gorm:"column:external_id;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	Status       string    `gorm:"column:status;not null"`
	CreativeType string    `gorm:"column:creative_type;not null;default:'image'"`
	ThumbnailURL *string   `gorm:"column:thumbnail_url"`
	VideoURL     *string   `gorm:"column:video_url"`
	Headline     *string   `gorm:"column:headline"`
	Body         *string   `gorm:"column:body"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (Ad) TableName() string { return "ads" }
