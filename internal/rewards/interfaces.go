package rewards

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
)

// Repository is the reward ledger store. Entries are append-only; the balance
// is the sum of all amounts for a user.
type Repository interface {
	Insert(ctx context.Context, entry *models.UserReward) error
	FindEntry(ctx context.Context, orderID uuid.UUID, kind enums.RewardEntryKind) (*models.UserReward, error)
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	WithTx(tx *gorm.DB) Repository
}

// Gate grants, redeems and revokes reward balance around the order lifecycle.
type Gate interface {
	// Balance returns the user's current redeemable balance.
	Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)

	// GrantForOrder credits the order's reward. It is idempotent per order,
	// retries once on transient failure, and never returns an error to the
	// caller; a failed grant is logged and left for reconciliation.
	GrantForOrder(ctx context.Context, order *models.Order)

	// RedeemInTx appends a redemption entry inside the caller's transaction.
	// The amount is the positive value being spent.
	RedeemInTx(ctx context.Context, tx *gorm.DB, userID, orderID uuid.UUID, amount decimal.Decimal) error

	// RevokeForOrder reverses a previously granted reward after a terminal
	// rejection or cancellation. Safe to call when nothing was granted.
	RevokeForOrder(ctx context.Context, order *models.Order)
}
