package invoicing

import (
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/internal/pricing"
	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/types"
)

var oneHundred = decimal.NewFromInt(100)

// DiscountSplit allocates an order's discount cost between the restaurant and
// the platform for invoicing.
type DiscountSplit struct {
	MainDiscount       decimal.Decimal
	BogoLoss           decimal.Decimal
	RestaurantBogoBear decimal.Decimal
	PlatformBogoBear   decimal.Decimal
	RestaurantDiscount decimal.Decimal
	PlatformDiscount   decimal.Decimal
	CommissionAmount   decimal.Decimal
}

// Split is a pure function over the frozen order snapshot and the restaurant's
// contract terms. The platform share is derived by subtraction from the main
// discount rather than built up additively, so the two halves always
// reconstruct the whole.
func Split(costs types.CostBreakdown, items types.OrderItemMetas, htComponent decimal.Decimal, terms models.RestaurantContract) DiscountSplit {
	// The stored bogo_discount may be net of clamping, so the loss is
	// recomputed from the line items.
	bogoLoss := recomputeBogoLoss(items)

	voucherDiscount := costs.Discount.Sub(costs.BogoDiscount)
	mainDiscount := voucherDiscount.Add(bogoLoss)

	restaurantBogoBear := types.Round2(bogoLoss.Mul(terms.BogoBearByRestaurantPct).Div(oneHundred))
	platformBogoBear := bogoLoss.Sub(restaurantBogoBear)

	restaurantBearsHT := htComponent.Mul(terms.HTVoucherPctBorneByRestaurant).Div(oneHundred)
	restaurantDiscount := mainDiscount.Sub(htComponent).
		Mul(terms.RestaurantDiscountPct).Div(oneHundred).
		Add(restaurantBearsHT).
		Add(restaurantBogoBear)

	restaurantRounded := types.Round2(restaurantDiscount)
	mainRounded := types.Round2(mainDiscount)

	// Commission is charged on the post-discount order value.
	commission := types.Round2(costs.OrderValue.Sub(costs.Discount).Mul(terms.CommissionPct).Div(oneHundred))
	if commission.IsNegative() {
		commission = decimal.Zero
	}

	return DiscountSplit{
		MainDiscount:       mainRounded,
		BogoLoss:           types.Round2(bogoLoss),
		RestaurantBogoBear: restaurantBogoBear,
		PlatformBogoBear:   types.Round2(platformBogoBear),
		RestaurantDiscount: restaurantRounded,
		PlatformDiscount:   mainRounded.Sub(restaurantRounded),
		CommissionAmount:   commission,
	}
}

// The customer pays the listed price for half the BOGO quantity, rounded
// down; the loss is the actual price of the full quantity less that payment.
func recomputeBogoLoss(items types.OrderItemMetas) decimal.Decimal {
	loss := decimal.Zero
	for _, item := range items {
		if !item.IsBogo {
			continue
		}
		inflate := item.BogoInflatePercent
		if !inflate.IsPositive() {
			inflate = pricing.DefaultBogoInflatePercent
		}
		qty := decimal.NewFromInt(int64(item.Quantity))
		actualTotal := types.Round2(item.BasePrice.Div(decimal.NewFromInt(1).Add(inflate.Div(oneHundred))).Mul(qty))
		paidQty := decimal.NewFromInt(int64(item.Quantity / 2))
		loss = loss.Add(actualTotal.Sub(item.BasePrice.Mul(paidQty)))
	}
	return loss
}
