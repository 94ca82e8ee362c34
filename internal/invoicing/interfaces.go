package invoicing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
)

// Repository loads the invoicing inputs and persists the computed split.
type Repository interface {
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindContract(ctx context.Context, restaurantID uuid.UUID) (*models.RestaurantContract, error)
	SaveSplit(ctx context.Context, orderID uuid.UUID, split DiscountSplit) error
	WithTx(tx *gorm.DB) Repository
}

// Service runs the discount split on counted orders and persists the result.
type Service interface {
	SplitOrder(ctx context.Context, orderID uuid.UUID) (*DiscountSplit, error)
}
