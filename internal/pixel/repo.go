package pixel

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/revoa/analytics-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pixel repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) InsertPixelEvent(ctx context.Context, event *models.PixelEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) FindAdByExternalID(ctx context.Context, externalID string) (*models.Ad, error) {
	var ad models.Ad
	err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&ad).Error
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *repository) FindOrderByNumber(ctx context.Context, userID uuid.UUID, orderNumber string) (*models.ShopifyOrder, error) {
	var order models.ShopifyOrder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("external_order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) InsertAdConversion(ctx context.Context, conversion *models.AdConversion) error {
	return r.db.WithContext(ctx).Create(conversion).Error
}
