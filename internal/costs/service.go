package costs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/internal/catalog"
	"github.com/remotekitchen/chatchef-backend-new/internal/fees"
	"github.com/remotekitchen/chatchef-backend-new/internal/pricing"
	"github.com/remotekitchen/chatchef-backend-new/internal/promotions"
	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
	pkgerrors "github.com/remotekitchen/chatchef-backend-new/pkg/errors"
	"github.com/remotekitchen/chatchef-backend-new/pkg/logger"
	"github.com/remotekitchen/chatchef-backend-new/pkg/metrics"
	"github.com/remotekitchen/chatchef-backend-new/pkg/types"
)

// Input is the full argument set for one cost calculation.
type Input struct {
	UserID           uuid.UUID
	RestaurantID     uuid.UUID
	Items            []catalog.ItemQuantity
	OrderMethod      enums.OrderMethod
	Platform         enums.DeliveryPlatform
	VoucherCode      string
	BxGyID           *uuid.UUID
	SpendRuleID      *uuid.UUID
	DeliveryQuoteFee *decimal.Decimal
	BagQty           int
	UtensilQty       int
	Tips             decimal.Decimal
}

// Calculation pairs the rounded breakdown with the adjusted lines and the
// voucher that produced it, for callers that persist the order.
// VoucherDiscount is the voucher share of the discount, rounded.
type Calculation struct {
	Breakdown       types.CostBreakdown
	Lines           []pricing.AdjustedLine
	Voucher         *models.Voucher
	VoucherDiscount decimal.Decimal
	Overflowed      bool
}

// Service is the cost calculation entry point. It is read-only: the only
// state it touches are promotion usage counts.
type Service interface {
	GetUpdatedCost(ctx context.Context, in Input) (*Calculation, error)
}

type service struct {
	catalog   catalog.Resolver
	promos    promotions.Repository
	markup    fees.MarkupResolver
	schedules fees.ScheduleRepository
	logg      *logger.Logger
	metrics   *metrics.CostMetrics
}

// NewService builds the cost aggregator with the required collaborators.
func NewService(cat catalog.Resolver, promos promotions.Repository, markup fees.MarkupResolver, schedules fees.ScheduleRepository, logg *logger.Logger, costMetrics *metrics.CostMetrics) (Service, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog resolver required")
	}
	if promos == nil {
		return nil, fmt.Errorf("promotions repository required")
	}
	if markup == nil {
		return nil, fmt.Errorf("markup resolver required")
	}
	if schedules == nil {
		return nil, fmt.Errorf("fee schedule repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		catalog:   cat,
		promos:    promos,
		markup:    markup,
		schedules: schedules,
		logg:      logg,
		metrics:   costMetrics,
	}, nil
}

func (s *service) GetUpdatedCost(ctx context.Context, in Input) (*Calculation, error) {
	started := time.Now()
	calc, err := s.calculate(ctx, in)
	s.metrics.ObserveDuration(in.OrderMethod.String(), time.Since(started))
	if err != nil {
		s.metrics.IncCalculation("error")
		return nil, err
	}
	s.metrics.IncCalculation("ok")
	return calc, nil
}

func (s *service) calculate(ctx context.Context, in Input) (*Calculation, error) {
	if !in.OrderMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order method")
	}

	resolved, err := s.catalog.ResolveLines(ctx, in.RestaurantID, in.Items)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, 0, len(resolved))
	subtotal := decimal.Zero
	for _, rl := range resolved {
		line := pricing.Line{
			ItemID:    rl.Item.ID,
			Name:      rl.Item.Name,
			UnitPrice: rl.Item.BasePrice,
			Quantity:  rl.Quantity,
			IsBogo:    rl.Item.IsBogo,
		}
		if rl.Item.BogoInflatePercent != nil {
			line.InflatePercent = *rl.Item.BogoInflatePercent
		}
		if rl.Deal != nil {
			price := rl.Deal.DealPrice
			line.DealPrice = &price
		}
		lines = append(lines, line)
		subtotal = subtotal.Add(rl.Item.BasePrice.Mul(decimal.NewFromInt(int64(rl.Quantity))))
	}

	promos, voucher, err := s.resolvePromotions(ctx, in, subtotal)
	if err != nil {
		return nil, err
	}

	composed, err := pricing.Compose(lines, promos, in.OrderMethod, promotions.EligibilityContext{
		RestaurantID: in.RestaurantID,
		Platform:     in.Platform,
	})
	if err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodePromotionInvalid) {
			s.metrics.IncVoucherRejection("ineligible")
		}
		return nil, err
	}
	if composed.Overflowed {
		s.metrics.IncDiscountOverflow()
		s.logg.Warn(s.logg.WithRestaurantID(ctx, in.RestaurantID.String()), "discount clamped to order value")
	}

	markup := decimal.Zero
	if in.OrderMethod.IsDelivery() {
		markup, err = s.markup.ResolveMarkup(ctx, in.UserID, in.RestaurantID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve delivery markup")
		}
	}

	schedule, err := s.schedules.FindSchedule(ctx, in.RestaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant fee schedule")
	}
	if schedule == nil {
		schedule = &models.RestaurantFee{}
	}

	feeOut, err := fees.Compute(fees.Input{
		PostDiscountSubtotal: types.ClampNonNegative(composed.OrderValue.Sub(composed.TotalDiscount())),
		OrderMethod:          in.OrderMethod,
		DeliveryQuoteFee:     in.DeliveryQuoteFee,
		Markup:               markup,
		BagQty:               in.BagQty,
		UtensilQty:           in.UtensilQty,
		Tips:                 in.Tips,
		Schedule:             *schedule,
	})
	if err != nil {
		return nil, err
	}

	return &Calculation{
		Breakdown:       assembleBreakdown(composed, feeOut),
		Lines:           composed.Lines,
		Voucher:         voucher,
		VoucherDiscount: types.Round2(composed.VoucherDiscount),
		Overflowed:      composed.Overflowed,
	}, nil
}

// resolvePromotions loads every referenced promotion. An explicit voucher code
// that does not resolve is an error; optional rule ids that do not resolve are
// silently skipped.
func (s *service) resolvePromotions(ctx context.Context, in Input, subtotal decimal.Decimal) (pricing.Promotions, *models.Voucher, error) {
	promos := pricing.Promotions{}
	if in.OrderMethod == enums.OrderMethodLocalDeal {
		return promos, nil, nil
	}

	var voucher *models.Voucher
	if in.VoucherCode != "" {
		var err error
		voucher, err = s.promos.FindVoucherByCode(ctx, in.VoucherCode)
		if err != nil {
			return promos, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load voucher")
		}
		if voucher == nil {
			s.metrics.IncVoucherRejection("unknown_code")
			return promos, nil, pkgerrors.New(pkgerrors.CodePromotionInvalid, "voucher code not found")
		}
		if err := s.checkVoucherUsage(ctx, voucher, in.UserID); err != nil {
			return promos, nil, err
		}
		promos.Voucher = voucher
	}

	bogoRules, err := s.promos.FindBogoRules(ctx, in.RestaurantID)
	if err != nil {
		return promos, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bogo rules")
	}
	if len(bogoRules) > 0 {
		promos.BogoInflateOverrides = make(map[uuid.UUID]decimal.Decimal, len(bogoRules))
		for _, rule := range bogoRules {
			promos.BogoInflateOverrides[rule.MenuItemID] = rule.InflatePercent
		}
	}

	if in.BxGyID != nil {
		rule, err := s.promos.FindBxGyRule(ctx, *in.BxGyID)
		if err != nil {
			return promos, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load bxgy rule")
		}
		promos.BxGy = rule
	}

	if in.SpendRuleID != nil {
		rule, err := s.promos.FindSpendRule(ctx, *in.SpendRuleID)
		if err != nil {
			return promos, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load spend rule")
		}
		promos.Spend = rule
	} else {
		rule, err := s.promos.FindBestSpendRule(ctx, in.RestaurantID, subtotal)
		if err != nil {
			return promos, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load spend rule")
		}
		promos.Spend = rule
	}

	return promos, voucher, nil
}

// checkVoucherUsage enforces one-time-use and max-uses-per-user with count
// reads. The persistence-time re-check under a row lock lives in the orders
// service; this read keeps previews honest.
func (s *service) checkVoucherUsage(ctx context.Context, voucher *models.Voucher, userID uuid.UUID) error {
	if voucher.IsOneTimeUse {
		used, err := s.promos.CountOrdersWithVoucher(ctx, voucher.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count voucher usage")
		}
		if used > 0 {
			s.metrics.IncVoucherRejection("one_time_use")
			return pkgerrors.New(pkgerrors.CodeVoucherUsed, "voucher has already been used")
		}
	}
	if voucher.MaxUsesPerUser > 0 {
		used, err := s.promos.CountUserOrdersWithVoucher(ctx, voucher.ID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count voucher usage for user")
		}
		if used >= int64(voucher.MaxUsesPerUser) {
			s.metrics.IncVoucherRejection("max_uses")
			return pkgerrors.New(pkgerrors.CodeVoucherMaxUses, "voucher usage limit reached for user")
		}
	}
	return nil
}

// assembleBreakdown rounds every component once and builds the total from the
// rounded parts so the published sum identity holds exactly.
func assembleBreakdown(composed *pricing.Result, feeOut *fees.Breakdown) types.CostBreakdown {
	breakdown := types.CostBreakdown{
		OrderValue:          types.Round2(composed.OrderValue),
		Quantity:            composed.Quantity,
		Discount:            types.Round2(composed.TotalDiscount()),
		BogoDiscount:        types.Round2(composed.BogoDiscount),
		BxGyDiscount:        types.Round2(composed.BxGyDiscount),
		DeliveryFee:         types.Round2(feeOut.DeliveryFee),
		OriginalDeliveryFee: types.Round2(feeOut.OriginalDeliveryFee),
		DeliveryDiscount:    types.Round2(feeOut.DeliveryDiscount),
		Tax:                 types.Round2(feeOut.Tax),
		ConvenienceFee:      types.Round2(feeOut.ConvenienceFee),
		BagPrice:            types.Round2(feeOut.BagPrice),
		UtensilPrice:        types.Round2(feeOut.UtensilPrice),
		TipsForRestaurant:   types.Round2(feeOut.Tips),
	}
	breakdown.Total = breakdown.OrderValue.
		Sub(breakdown.Discount).
		Add(breakdown.DeliveryFee).
		Add(breakdown.Tax).
		Add(breakdown.ConvenienceFee).
		Add(breakdown.BagPrice).
		Add(breakdown.UtensilPrice).
		Add(breakdown.TipsForRestaurant)
	return breakdown
}
