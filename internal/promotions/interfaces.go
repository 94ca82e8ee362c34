package promotions

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
)

// Repository defines persistence operations for promotion tables. Lookups by
// optional id return (nil, nil) when the promotion does not exist; callers
// decide whether absence is an error.
type Repository interface {
	FindVoucherByCode(ctx context.Context, code string) (*models.Voucher, error)
	FindBogoRules(ctx context.Context, restaurantID uuid.UUID) ([]models.BogoRule, error)
	FindBxGyRule(ctx context.Context, id uuid.UUID) (*models.BxGyRule, error)
	FindSpendRule(ctx context.Context, id uuid.UUID) (*models.SpendRule, error)
	FindBestSpendRule(ctx context.Context, restaurantID uuid.UUID, subtotal decimal.Decimal) (*models.SpendRule, error)
	CountOrdersWithVoucher(ctx context.Context, voucherID uuid.UUID) (int64, error)
	CountUserOrdersWithVoucher(ctx context.Context, voucherID, userID uuid.UUID) (int64, error)
}
