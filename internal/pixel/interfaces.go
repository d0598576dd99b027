package pixel

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revoa/analytics-backend/pkg/db/models"
)

// Repository persists pixel events and materialized attribution links.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	InsertPixelEvent(ctx context.Context, event *models.PixelEvent) error
	FindAdByExternalID(ctx context.Context, externalID string) (*models.Ad, error)
	FindOrderByNumber(ctx context.Context, userID uuid.UUID, orderNumber string) (*models.ShopifyOrder, error)
	InsertAdConversion(ctx context.Context, conversion *models.AdConversion) error
}
