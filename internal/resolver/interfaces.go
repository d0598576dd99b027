package resolver

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revoa/analytics-backend/pkg/db/models"
)

// Repository defines the reads the resolver needs across the pixel, attribution
// and platform-metric tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPurchasePixelEvents(ctx context.Context, userID uuid.UUID, startDate, endDate string) ([]models.PixelEvent, error)
	FindAdsByIDs(ctx context.Context, adIDs []uuid.UUID) ([]models.Ad, error)
	FindAttributedConversions(ctx context.Context, accountIDs []uuid.UUID, startDate, endDate string) ([]AttributedConversion, error)
	FindOrderCOGS(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]float64, error)
	FindAdMetricTotals(ctx context.Context, adIDs []uuid.UUID, startDate, endDate string) (map[uuid.UUID]MetricTotals, error)
	CountLinkedProducts(ctx context.Context, userID uuid.UUID, adIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

// Service resolves conversion data for a set of ads from the best available source.
type Service interface {
	Resolve(ctx context.Context, input ResolveInput) (map[uuid.UUID]ResolvedConversion, error)
}
