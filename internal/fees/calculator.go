package fees

import (
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
	pkgerrors "github.com/remotekitchen/chatchef-backend-new/pkg/errors"
)

var oneHundred = decimal.NewFromInt(100)

// Input carries everything the fee computation needs. DeliveryQuoteFee comes
// from the external dispatch quote and Markup from the tiered fee rule; both
// are already resolved so the computation stays pure.
type Input struct {
	PostDiscountSubtotal decimal.Decimal
	OrderMethod          enums.OrderMethod
	DeliveryQuoteFee     *decimal.Decimal
	Markup               decimal.Decimal
	BagQty               int
	UtensilQty           int
	Tips                 decimal.Decimal
	Schedule             models.RestaurantFee
}

// Breakdown is the fee computation output at full precision.
type Breakdown struct {
	DeliveryFee         decimal.Decimal
	OriginalDeliveryFee decimal.Decimal
	DeliveryDiscount    decimal.Decimal
	BagPrice            decimal.Decimal
	UtensilPrice        decimal.Decimal
	Tax                 decimal.Decimal
	ConvenienceFee      decimal.Decimal
	Tips                decimal.Decimal
}

// Compute derives every fee from the post-discount subtotal. Tax applies to
// the subtotal AFTER discounts; the convenience fee applies after tax. For
// pickup and local_deal orders the delivery fee is forced to zero. A delivery
// order without a quote is rejected, never defaulted.
func Compute(in Input) (*Breakdown, error) {
	out := &Breakdown{Tips: in.Tips}

	if in.OrderMethod.IsDelivery() {
		if in.DeliveryQuoteFee == nil {
			return nil, pkgerrors.New(pkgerrors.CodeMissingQuote, "delivery order requires a delivery quote")
		}
		out.OriginalDeliveryFee = *in.DeliveryQuoteFee
		out.DeliveryFee = in.DeliveryQuoteFee.Add(in.Markup)
		if out.OriginalDeliveryFee.GreaterThan(out.DeliveryFee) {
			out.DeliveryDiscount = out.OriginalDeliveryFee.Sub(out.DeliveryFee)
		}
	}

	if in.BagQty > 0 {
		out.BagPrice = in.Schedule.BagUnitPrice.Mul(decimal.NewFromInt(int64(in.BagQty)))
	}
	if in.UtensilQty > 0 {
		out.UtensilPrice = in.Schedule.UtensilUnitPrice.Mul(decimal.NewFromInt(int64(in.UtensilQty)))
	}

	out.Tax = in.PostDiscountSubtotal.Mul(in.Schedule.TaxRate)

	if in.Schedule.ConvenienceFee.IsPositive() {
		if in.Schedule.ConvenienceIsPercentage {
			taxed := in.PostDiscountSubtotal.Add(out.Tax)
			out.ConvenienceFee = taxed.Mul(in.Schedule.ConvenienceFee).Div(oneHundred)
		} else {
			out.ConvenienceFee = in.Schedule.ConvenienceFee
		}
	}

	return out, nil
}
