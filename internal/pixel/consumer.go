package pixel

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revoa/analytics-backend/pkg/db"
	"github.com/revoa/analytics-backend/pkg/db/models"
	"github.com/revoa/analytics-backend/pkg/enums"
	"github.com/revoa/analytics-backend/pkg/logger"
)

const (
	idempotencyScope = "pixel_event"
	idempotencyTTL   = 24 * time.Hour
)

type idempotencyStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

// Consumer ingests pixel event envelopes from the subscription, persisting
// each event once and materializing an attribution link when the envelope
// carries enough to identify both the ad and the order.
type Consumer struct {
	repo  Repository
	store idempotencyStore
	logg  *logger.Logger
}

// NewConsumer builds the pixel ingestion consumer.
func NewConsumer(repo Repository, store idempotencyStore, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("pixel repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("idempotency store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{repo: repo, store: store, logg: logg}, nil
}

// Process handles one raw message. A returned error means the message should
// be nacked and redelivered; duplicates return nil.
func (c *Consumer) Process(ctx context.Context, data []byte) error {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		// Malformed payloads never become valid on redelivery.
		c.logg.Error(ctx, "dropping undecodable pixel event", err)
		return nil
	}
	if strings.TrimSpace(envelope.EventID) == "" {
		c.logg.Warn(ctx, "dropping pixel event without event id")
		return nil
	}
	if envelope.UserID == uuid.Nil {
		c.logg.Warn(ctx, "dropping pixel event without user id")
		return nil
	}

	logCtx := c.logg.WithFields(ctx, map[string]any{
		"event_id":   envelope.EventID,
		"event_name": envelope.EventName,
		"user_id":    envelope.UserID.String(),
	})

	key := c.store.IdempotencyKey(idempotencyScope, envelope.EventID)
	first, err := c.store.SetNX(ctx, key, "1", idempotencyTTL)
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if !first {
		c.logg.Info(logCtx, "pixel event already processed")
		return nil
	}

	if err := c.ingest(ctx, logCtx, envelope); err != nil {
		// Release the claim so a redelivery can retry.
		_ = c.store.Del(ctx, key)
		return err
	}
	return nil
}

func (c *Consumer) ingest(ctx context.Context, logCtx context.Context, envelope EventEnvelope) error {
	eventName, err := enums.ParsePixelEventName(envelope.EventName)
	if err != nil {
		c.logg.Warn(logCtx, "dropping pixel event with unknown event name")
		return nil
	}

	occurredAt := envelope.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	currency := envelope.Currency
	if currency == "" {
		currency = "USD"
	}

	event := &models.PixelEvent{
		ID:          uuid.New(),
		EventID:     envelope.EventID,
		UserID:      envelope.UserID,
		EventName:   eventName,
		OrderValue:  envelope.OrderValue,
		Currency:    currency,
		UTMSource:   envelope.UTMSource,
		UTMMedium:   envelope.UTMMedium,
		UTMCampaign: envelope.UTMCampaign,
		UTMTerm:     envelope.UTMTerm,
		UTMContent:  envelope.UTMContent,
		FBClickID:   envelope.FBClickID,
		GClickID:    envelope.GClickID,
		TTClickID:   envelope.TTClickID,
		Payload:     envelope.Payload,
		OccurredAt:  occurredAt,
	}

	if err := c.repo.InsertPixelEvent(ctx, event); err != nil {
		if db.IsUniqueViolation(err, "") {
			c.logg.Info(logCtx, "pixel event row already stored")
			return nil
		}
		return fmt.Errorf("inserting pixel event: %w", err)
	}
	c.logg.Info(logCtx, "pixel event stored")

	if eventName == enums.PixelEventPurchase {
		c.materializeConversion(ctx, logCtx, envelope, occurredAt)
	}
	return nil
}

// materializeConversion creates the explicit ad->order link when the envelope
// unambiguously names an ad (utm_term/utm_content carrying the platform ad id)
// and a known order. Best-effort: failures log and leave the stored event as
// the source of truth for the pixel tier.
func (c *Consumer) materializeConversion(ctx context.Context, logCtx context.Context, envelope EventEnvelope, occurredAt time.Time) {
	adExternalID := firstNonEmpty(envelope.UTMTerm, envelope.UTMContent)
	if adExternalID == "" || envelope.OrderNumber == "" {
		return
	}

	ad, err := c.repo.FindAdByExternalID(ctx, adExternalID)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "ad lookup failed, skipping conversion link")
		}
		return
	}
	order, err := c.repo.FindOrderByNumber(ctx, envelope.UserID, envelope.OrderNumber)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "order lookup failed, skipping conversion link")
		}
		return
	}

	conversion := &models.AdConversion{
		ID:              uuid.New(),
		AdID:            ad.ID,
		ShopifyOrderID:  order.ID,
		ConversionValue: envelope.OrderValue,
		OccurredAt:      occurredAt,
	}
	if err := c.repo.InsertAdConversion(ctx, conversion); err != nil {
		if db.IsUniqueViolation(err, "") {
			return
		}
		c.logg.Warn(c.logg.WithField(logCtx, "error", err.Error()), "conversion link insert failed")
		return
	}
	c.logg.Info(logCtx, "ad conversion materialized")
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
