package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/internal/promotions"
	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
	"github.com/remotekitchen/chatchef-backend-new/pkg/types"
)

// DefaultBogoInflatePercent is the storefront price inflation assumed for
// buy-one-get-one items without an explicit rule.
var DefaultBogoInflatePercent = decimal.NewFromInt(40)

var oneHundred = decimal.NewFromInt(100)

// Line is a resolved order line entering discount composition.
type Line struct {
	ItemID         uuid.UUID
	Name           string
	UnitPrice      decimal.Decimal
	Quantity       int
	IsBogo         bool
	InflatePercent decimal.Decimal
	DealPrice      *decimal.Decimal
}

// Promotions bundles every promotion reference active for one calculation.
// Voucher may be nil; BxGy, Spend likewise. BogoInflateOverrides maps menu
// item ids to per-item inflate percents.
type Promotions struct {
	Voucher              *models.Voucher
	BogoInflateOverrides map[uuid.UUID]decimal.Decimal
	BxGy                 *models.BxGyRule
	Spend                *models.SpendRule
}

// AdjustedLine is a line after composition, carrying the un-inflated unit
// price used by downstream invoicing.
type AdjustedLine struct {
	ItemID          uuid.UUID
	Name            string
	UnitPrice       decimal.Decimal
	ActualUnitPrice decimal.Decimal
	Quantity        int
	IsBogo          bool
	InflatePercent  decimal.Decimal
	LineValue       decimal.Decimal
}

// Result is the composer output. Discount holds the voucher and spend
// components; BogoDiscount and BxGyDiscount are reported separately and the
// three together are what the clamp bounds to OrderValue. VoucherDiscount is
// the voucher share of Discount before clamping, kept for invoicing. All
// values keep full precision; rounding happens at breakdown assembly.
type Result struct {
	Lines           []AdjustedLine
	OrderValue      decimal.Decimal
	Quantity        int
	Discount        decimal.Decimal
	VoucherDiscount decimal.Decimal
	BogoDiscount    decimal.Decimal
	BxGyDiscount    decimal.Decimal
	Overflowed      bool
}

// TotalDiscount is the clamped sum of every discount component.
func (r *Result) TotalDiscount() decimal.Decimal {
	return r.Discount.Add(r.BogoDiscount).Add(r.BxGyDiscount)
}

// Compose applies every active discount mechanism in fixed precedence:
// voucher eligibility, BOGO, BxGy, spend-X-save-Y, voucher amount, clamp.
// Percentage discounts apply to the running reduced subtotal; flat ones
// subtract directly. The local_deal order method bypasses composition and
// charges each line its fixed deal price.
func Compose(lines []Line, promos Promotions, orderMethod enums.OrderMethod, ec promotions.EligibilityContext) (*Result, error) {
	active := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		active = append(active, line)
	}

	if orderMethod == enums.OrderMethodLocalDeal {
		return composeLocalDeal(active), nil
	}

	result := &Result{Lines: make([]AdjustedLine, 0, len(active))}
	for _, line := range active {
		qty := decimal.NewFromInt(int64(line.Quantity))
		result.OrderValue = result.OrderValue.Add(line.UnitPrice.Mul(qty))
		result.Quantity += line.Quantity
	}

	if promos.Voucher != nil {
		ec.Subtotal = result.OrderValue
		if err := promotions.ValidateVoucher(promos.Voucher, ec); err != nil {
			return nil, err
		}
	}

	effectiveUnit := make(map[uuid.UUID]decimal.Decimal, len(active))
	qtyByItem := make(map[uuid.UUID]int, len(active))
	for _, line := range active {
		qty := decimal.NewFromInt(int64(line.Quantity))
		adjusted := AdjustedLine{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			IsBogo:    line.IsBogo,
		}
		actual := line.UnitPrice
		if line.IsBogo {
			inflate := resolveInflatePercent(line, promos.BogoInflateOverrides)
			// The un-inflated unit price is a customer-visible amount, so it
			// is rounded to cents before the loss is taken from it.
			actual = types.Round2(line.UnitPrice.Div(decimal.NewFromInt(1).Add(inflate.Div(oneHundred))))
			result.BogoDiscount = result.BogoDiscount.Add(line.UnitPrice.Sub(actual).Mul(qty))
			adjusted.InflatePercent = inflate
		}
		adjusted.ActualUnitPrice = actual
		adjusted.LineValue = line.UnitPrice.Mul(qty)
		result.Lines = append(result.Lines, adjusted)
		effectiveUnit[line.ItemID] = actual
		qtyByItem[line.ItemID] += line.Quantity
	}

	if promos.BxGy != nil {
		result.BxGyDiscount = bxgyCredit(promos.BxGy, qtyByItem, effectiveUnit)
	}

	reduced := result.OrderValue.Sub(result.BogoDiscount).Sub(result.BxGyDiscount)

	if promos.Spend != nil && reduced.GreaterThanOrEqual(promos.Spend.Threshold) {
		saved := promos.Spend.Amount
		if promos.Spend.IsPercentage {
			saved = reduced.Mul(promos.Spend.Amount).Div(oneHundred)
		}
		if promos.Spend.MaxDiscount != nil && saved.GreaterThan(*promos.Spend.MaxDiscount) {
			saved = *promos.Spend.MaxDiscount
		}
		result.Discount = result.Discount.Add(saved)
		reduced = reduced.Sub(saved)
	}

	if promos.Voucher != nil {
		redeemed := promos.Voucher.Amount
		if promos.Voucher.IsPercentage {
			redeemed = reduced.Mul(promos.Voucher.Amount).Div(oneHundred)
		}
		if promos.Voucher.MaxRedeemValue != nil && redeemed.GreaterThan(*promos.Voucher.MaxRedeemValue) {
			redeemed = *promos.Voucher.MaxRedeemValue
		}
		result.Discount = result.Discount.Add(redeemed)
		result.VoucherDiscount = redeemed
	}

	clamp(result)
	return result, nil
}

func composeLocalDeal(lines []Line) *Result {
	result := &Result{Lines: make([]AdjustedLine, 0, len(lines))}
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		unit := line.UnitPrice
		if line.DealPrice != nil {
			unit = *line.DealPrice
		}
		result.Lines = append(result.Lines, AdjustedLine{
			ItemID:          line.ItemID,
			Name:            line.Name,
			UnitPrice:       unit,
			ActualUnitPrice: unit,
			Quantity:        line.Quantity,
			LineValue:       unit.Mul(qty),
		})
		result.OrderValue = result.OrderValue.Add(unit.Mul(qty))
		result.Quantity += line.Quantity
	}
	return result
}

func resolveInflatePercent(line Line, overrides map[uuid.UUID]decimal.Decimal) decimal.Decimal {
	if overrides != nil {
		if pct, ok := overrides[line.ItemID]; ok && pct.IsPositive() {
			return pct
		}
	}
	if line.InflatePercent.IsPositive() {
		return line.InflatePercent
	}
	return DefaultBogoInflatePercent
}

// bxgyCredit grants GetQuantity free get-items per BuyQuantity buy-items,
// capped at the get-item quantity actually ordered. The credit uses the
// get-item's effective unit price so BOGO items are not discounted twice.
func bxgyCredit(rule *models.BxGyRule, qtyByItem map[uuid.UUID]int, effectiveUnit map[uuid.UUID]decimal.Decimal) decimal.Decimal {
	if rule.BuyQuantity <= 0 || rule.GetQuantity <= 0 {
		return decimal.Zero
	}
	buyQty, ok := qtyByItem[rule.BuyMenuItemID]
	if !ok || buyQty < rule.BuyQuantity {
		return decimal.Zero
	}
	getQty, ok := qtyByItem[rule.GetMenuItemID]
	if !ok || getQty <= 0 {
		return decimal.Zero
	}
	freeUnits := (buyQty / rule.BuyQuantity) * rule.GetQuantity
	if freeUnits > getQty {
		freeUnits = getQty
	}
	unit, ok := effectiveUnit[rule.GetMenuItemID]
	if !ok {
		return decimal.Zero
	}
	return unit.Mul(decimal.NewFromInt(int64(freeUnits)))
}

// clamp bounds the combined discount at the order value, shaving the voucher
// and spend component first, then BxGy, then BOGO.
func clamp(result *Result) {
	excess := result.TotalDiscount().Sub(result.OrderValue)
	if !excess.IsPositive() {
		return
	}
	result.Overflowed = true
	for _, component := range []*decimal.Decimal{&result.Discount, &result.BxGyDiscount, &result.BogoDiscount} {
		if !excess.IsPositive() {
			break
		}
		take := decimal.Min(*component, excess)
		*component = component.Sub(take)
		excess = excess.Sub(take)
	}
}
