package invoicing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an invoicing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindContract(ctx context.Context, restaurantID uuid.UUID) (*models.RestaurantContract, error) {
	var contract models.RestaurantContract
	err := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}

func (r *repository) SaveSplit(ctx context.Context, orderID uuid.UUID, split DiscountSplit) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"restaurant_discount": split.RestaurantDiscount,
			"platform_discount":   split.PlatformDiscount,
			"commission_amount":   split.CommissionAmount,
		}).Error
}
