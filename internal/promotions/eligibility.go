package promotions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
	pkgerrors "github.com/remotekitchen/chatchef-backend-new/pkg/errors"
)

// EligibilityContext carries the order facts a voucher is checked against.
type EligibilityContext struct {
	RestaurantID uuid.UUID
	Platform     enums.DeliveryPlatform
	Subtotal     decimal.Decimal
	Now          time.Time
}

// ValidateVoucher runs the pure eligibility checks: active, time window,
// restaurant scope, platform scope, and minimum spend. Usage-count limits are
// enforced separately because they require reads against prior orders.
func ValidateVoucher(voucher *models.Voucher, ec EligibilityContext) error {
	if voucher == nil {
		return pkgerrors.New(pkgerrors.CodePromotionInvalid, "voucher not found")
	}
	if !voucher.Active {
		return pkgerrors.New(pkgerrors.CodePromotionInvalid, "voucher is inactive")
	}
	now := ec.Now
	if now.IsZero() {
		now = time.Now()
	}
	if voucher.StartsAt != nil && now.Before(*voucher.StartsAt) {
		return pkgerrors.New(pkgerrors.CodePromotionInvalid, "voucher is not yet active")
	}
	if voucher.ExpiresAt != nil && now.After(*voucher.ExpiresAt) {
		return pkgerrors.New(pkgerrors.CodePromotionInvalid, "voucher has expired")
	}
	if voucher.RestaurantID != nil && *voucher.RestaurantID != ec.RestaurantID {
		return pkgerrors.New(pkgerrors.CodePromotionInvalid, "voucher does not apply to this restaurant")
	}
	if len(voucher.Platforms) > 0 && !platformAllowed(voucher.Platforms, ec.Platform) {
		return pkgerrors.New(pkgerrors.CodePromotionInvalid, "voucher does not apply to this platform")
	}
	if voucher.MinSpend.IsPositive() && ec.Subtotal.LessThan(voucher.MinSpend) {
		return pkgerrors.New(pkgerrors.CodePromotionInvalid, "order is below the voucher minimum spend").
			WithDetails(map[string]string{"min_spend": voucher.MinSpend.StringFixed(2)})
	}
	return nil
}

func platformAllowed(platforms []string, platform enums.DeliveryPlatform) bool {
	for _, p := range platforms {
		if p == platform.String() {
			return true
		}
	}
	return false
}
