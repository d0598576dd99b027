package pixel

import (
	"time"

	"github.com/google/uuid"

	"github.com/revoa/analytics-backend/pkg/types"
)

// EventEnvelope is the wire format published by the storefront webhook and
// consumed by the ingestion worker.
type EventEnvelope struct {
	EventID     string         `json:"event_id" validate:"required"`
	UserID      uuid.UUID      `json:"user_id" validate:"required"`
	EventName   string         `json:"event_name" validate:"required"`
	OrderValue  float64        `json:"order_value"`
	Currency    string         `json:"currency"`
	OrderNumber string         `json:"order_number,omitempty"`
	UTMSource   *string        `json:"utm_source,omitempty"`
	UTMMedium   *string        `json:"utm_medium,omitempty"`
	UTMCampaign *string        `json:"utm_campaign,omitempty"`
	UTMTerm     *string        `json:"utm_term,omitempty"`
	UTMContent  *string        `json:"utm_content,omitempty"`
	FBClickID   *string        `json:"fbclid,omitempty"`
	GClickID    *string        `json:"gclid,omitempty"`
	TTClickID   *string        `json:"ttclid,omitempty"`
	Payload     *types.JSONMap `json:"payload,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}
