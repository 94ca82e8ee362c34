package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/remotekitchen/chatchef-backend-new/internal/catalog"
	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
)

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	UserID           uuid.UUID
	RestaurantID     uuid.UUID
	Items            []catalog.ItemQuantity
	OrderMethod      enums.OrderMethod
	PaymentMethod    enums.PaymentMethod
	Platform         enums.DeliveryPlatform
	VoucherCode      string
	BxGyID           *uuid.UUID
	SpendRuleID      *uuid.UUID
	DeliveryQuoteFee *decimal.Decimal
	BagQty           int
	UtensilQty       int
	Tips             decimal.Decimal
	RedeemRewards    bool
}

// Repository is the order store. Voucher usage re-checks run against the same
// transaction as the insert so concurrent redemptions serialize on the row
// lock.
type Repository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order) error
	LockVoucher(ctx context.Context, voucherID uuid.UUID) (*models.Voucher, error)
	CountOrdersWithVoucher(ctx context.Context, voucherID uuid.UUID) (int64, error)
	CountUserOrdersWithVoucher(ctx context.Context, voucherID, userID uuid.UUID) (int64, error)
	WithTx(tx *gorm.DB) Repository
}

// Service owns the order lifecycle: creation with frozen costs and the
// status state machine with its side effects.
type Service interface {
	Create(ctx context.Context, in CreateOrderInput) (*models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Transition(ctx context.Context, id uuid.UUID, to enums.OrderStatus, reason string) (*models.Order, error)
}
