package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/remotekitchen/chatchef-backend-new/internal/costs"
	"github.com/remotekitchen/chatchef-backend-new/internal/invoicing"
	"github.com/remotekitchen/chatchef-backend-new/internal/rewards"
	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
	pkgerrors "github.com/remotekitchen/chatchef-backend-new/pkg/errors"
	"github.com/remotekitchen/chatchef-backend-new/pkg/logger"
	"github.com/remotekitchen/chatchef-backend-new/pkg/outbox"
	"github.com/remotekitchen/chatchef-backend-new/pkg/outbox/payloads"
	"github.com/remotekitchen/chatchef-backend-new/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:  {enums.OrderStatusAccepted, enums.OrderStatusRejected, enums.OrderStatusCancelled},
	enums.OrderStatusAccepted: {enums.OrderStatusCompleted, enums.OrderStatusCancelled},
}

var statusEvents = map[enums.OrderStatus]enums.OutboxEventType{
	enums.OrderStatusAccepted:  enums.EventOrderAccepted,
	enums.OrderStatusCompleted: enums.EventOrderCompleted,
	enums.OrderStatusRejected:  enums.EventOrderRejected,
	enums.OrderStatusCancelled: enums.EventOrderCancelled,
}

type service struct {
	repo      Repository
	costs     costs.Service
	gate      rewards.Gate
	invoicing invoicing.Service
	events    *outbox.Service
	tx        txRunner
	logg      *logger.Logger
}

// NewService builds the order lifecycle service.
func NewService(repo Repository, costSvc costs.Service, gate rewards.Gate, invoicingSvc invoicing.Service, events *outbox.Service, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if costSvc == nil {
		return nil, fmt.Errorf("cost service required")
	}
	if gate == nil {
		return nil, fmt.Errorf("reward gate required")
	}
	if invoicingSvc == nil {
		return nil, fmt.Errorf("invoicing service required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		costs:     costSvc,
		gate:      gate,
		invoicing: invoicingSvc,
		events:    events,
		tx:        tx,
		logg:      logg,
	}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// Create freezes the cost calculation into a new pending order. Voucher usage
// limits are re-checked under a row lock inside the insert transaction so
// concurrent redemptions cannot both succeed. Prepaid payments earn their
// reward immediately; cash waits for acceptance.
func (s *service) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if !in.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}
	// Local deal bundles are settled at the counter.
	if in.OrderMethod == enums.OrderMethodLocalDeal && in.PaymentMethod != enums.PaymentMethodCash {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "local deal orders are cash only")
	}

	calc, err := s.costs.GetUpdatedCost(ctx, costs.Input{
		UserID:           in.UserID,
		RestaurantID:     in.RestaurantID,
		Items:            in.Items,
		OrderMethod:      in.OrderMethod,
		Platform:         in.Platform,
		VoucherCode:      in.VoucherCode,
		BxGyID:           in.BxGyID,
		SpendRuleID:      in.SpendRuleID,
		DeliveryQuoteFee: in.DeliveryQuoteFee,
		BagQty:           in.BagQty,
		UtensilQty:       in.UtensilQty,
		Tips:             in.Tips,
	})
	if err != nil {
		return nil, err
	}

	redeem := decimal.Zero
	if in.RedeemRewards {
		balance, err := s.gate.Balance(ctx, in.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reward balance")
		}
		redeem = decimal.Min(balance, calc.Breakdown.Total)
		if !redeem.IsPositive() {
			redeem = decimal.Zero
		}
	}

	order := &models.Order{
		UserID:            in.UserID,
		RestaurantID:      in.RestaurantID,
		Status:            enums.OrderStatusPending,
		OrderMethod:       in.OrderMethod,
		PaymentMethod:     in.PaymentMethod,
		Platform:          in.Platform,
		Items:             snapshotLines(calc),
		Costs:             calc.Breakdown,
		Total:             calc.Breakdown.Total,
		RewardRedeemed:    redeem,
		TipsForRestaurant: calc.Breakdown.TipsForRestaurant,
		DeliveryQuoteFee:  in.DeliveryQuoteFee,
	}
	if calc.Voucher != nil {
		voucherID := calc.Voucher.ID
		code := calc.Voucher.Code
		order.VoucherID = &voucherID
		order.VoucherCode = &code
		if calc.Voucher.IsHTVoucher {
			order.HungrytigerDiscount = calc.VoucherDiscount
		}
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if calc.Voucher != nil {
			if err := s.consumeVoucher(ctx, txRepo, calc.Voucher, in.UserID); err != nil {
				return err
			}
		}

		if err := txRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
		}

		if redeem.IsPositive() {
			if err := s.gate.RedeemInTx(ctx, tx, in.UserID, order.ID, redeem); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record reward redemption")
			}
		}

		return s.emitCreationEvents(ctx, tx, order, in)
	})
	if err != nil {
		return nil, err
	}

	if in.PaymentMethod.IsPrepaid() {
		s.gate.GrantForOrder(ctx, order)
	}

	logCtx := s.logg.WithOrderID(s.logg.WithRestaurantID(ctx, order.RestaurantID.String()), order.ID.String())
	s.logg.Info(logCtx, "order created")
	return order, nil
}

// consumeVoucher re-validates usage limits while holding the voucher row lock.
// The preview-time counts are advisory; these are authoritative.
func (s *service) consumeVoucher(ctx context.Context, txRepo Repository, voucher *models.Voucher, userID uuid.UUID) error {
	locked, err := txRepo.LockVoucher(ctx, voucher.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock voucher")
	}
	if locked == nil || !locked.Active {
		return pkgerrors.New(pkgerrors.CodePromotionInvalid, "voucher is no longer available")
	}

	if locked.IsOneTimeUse {
		used, err := txRepo.CountOrdersWithVoucher(ctx, locked.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count voucher usage")
		}
		if used > 0 {
			return pkgerrors.New(pkgerrors.CodeVoucherUsed, "voucher has already been used")
		}
	}
	if locked.MaxUsesPerUser > 0 {
		used, err := txRepo.CountUserOrdersWithVoucher(ctx, locked.ID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count voucher usage for user")
		}
		if used >= int64(locked.MaxUsesPerUser) {
			return pkgerrors.New(pkgerrors.CodeVoucherMaxUses, "voucher usage limit reached for user")
		}
	}
	return nil
}

func (s *service) emitCreationEvents(ctx context.Context, tx *gorm.DB, order *models.Order, in CreateOrderInput) error {
	actor := &outbox.ActorRef{UserID: order.UserID, Role: "customer"}

	err := s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         actor,
		Data: payloads.OrderCreatedEvent{
			OrderID:       order.ID,
			UserID:        order.UserID,
			RestaurantID:  order.RestaurantID,
			OrderMethod:   order.OrderMethod,
			PaymentMethod: order.PaymentMethod,
			Total:         order.Total,
			Discount:      order.Costs.Discount,
			VoucherCode:   order.VoucherCode,
		},
		Version: 1,
	})
	if err != nil {
		return err
	}

	err = s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventReceiptQueued,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         actor,
		Data: payloads.ReceiptQueuedEvent{
			OrderID: order.ID,
			UserID:  order.UserID,
			Total:   order.Total,
		},
		Version: 1,
	})
	if err != nil {
		return err
	}

	if !order.OrderMethod.IsDelivery() {
		return nil
	}
	return s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventDeliveryRequested,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         actor,
		Data: payloads.DeliveryRequestedEvent{
			OrderID:      order.ID,
			RestaurantID: order.RestaurantID,
			Platform:     order.Platform,
			QuoteFee:     in.DeliveryQuoteFee,
		},
		Version: 1,
	})
}

// Transition moves an order through the lifecycle state machine and runs the
// per-status side effects after commit. Side effect failures are logged, not
// surfaced; the status change itself is the source of truth.
func (s *service) Transition(ctx context.Context, id uuid.UUID, to enums.OrderStatus, reason string) (*models.Order, error) {
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(order.Status, to) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
			WithDetails(map[string]string{"from": order.Status.String(), "to": to.String()})
	}

	from := order.Status
	now := time.Now()
	order.Status = to
	switch to {
	case enums.OrderStatusAccepted:
		order.AcceptedAt = &now
	case enums.OrderStatusCompleted:
		order.CompletedAt = &now
	case enums.OrderStatusRejected, enums.OrderStatusCancelled:
		order.CancelledAt = &now
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).UpdateStatus(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		return s.events.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     statusEvents[to],
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: payloads.OrderStatusChangedEvent{
				OrderID:      order.ID,
				UserID:       order.UserID,
				RestaurantID: order.RestaurantID,
				From:         from,
				To:           to,
				ChangedAt:    now,
				Reason:       reason,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}

	s.runTransitionEffects(ctx, order, to)

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id": order.ID.String(),
		"from":     from.String(),
		"to":       to.String(),
	})
	s.logg.Info(logCtx, "order status changed")
	return order, nil
}

func (s *service) runTransitionEffects(ctx context.Context, order *models.Order, to enums.OrderStatus) {
	logCtx := s.logg.WithOrderID(ctx, order.ID.String())

	switch to {
	case enums.OrderStatusAccepted:
		if !order.PaymentMethod.IsPrepaid() {
			s.gate.GrantForOrder(ctx, order)
		}
		if _, err := s.invoicing.SplitOrder(ctx, order.ID); err != nil {
			s.logg.Error(logCtx, "discount split after acceptance", err)
		}
	case enums.OrderStatusRejected, enums.OrderStatusCancelled:
		s.gate.RevokeForOrder(ctx, order)
	}
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

func snapshotLines(calc *costs.Calculation) types.OrderItemMetas {
	metas := make(types.OrderItemMetas, 0, len(calc.Lines))
	for _, line := range calc.Lines {
		metas = append(metas, types.OrderItemMeta{
			MenuItemID:         line.ItemID,
			Name:               line.Name,
			BasePrice:          line.UnitPrice,
			Quantity:           line.Quantity,
			IsBogo:             line.IsBogo,
			BogoInflatePercent: line.InflatePercent,
			LineTotal:          line.LineValue,
		})
	}
	return metas
}
