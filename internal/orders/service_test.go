package orders

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/remotekitchen/chatchef-backend-new/internal/costs"
	"github.com/remotekitchen/chatchef-backend-new/internal/invoicing"
	"github.com/remotekitchen/chatchef-backend-new/internal/pricing"
	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
	pkgerrors "github.com/remotekitchen/chatchef-backend-new/pkg/errors"
	"github.com/remotekitchen/chatchef-backend-new/pkg/logger"
	"github.com/remotekitchen/chatchef-backend-new/pkg/outbox"
	"github.com/remotekitchen/chatchef-backend-new/pkg/types"
)

type memOrderRepo struct {
	orders   map[uuid.UUID]*models.Order
	vouchers map[uuid.UUID]*models.Voucher
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{
		orders:   make(map[uuid.UUID]*models.Order),
		vouchers: make(map[uuid.UUID]*models.Voucher),
	}
}

func (r *memOrderRepo) WithTx(_ *gorm.DB) Repository { return r }

func (r *memOrderRepo) Create(_ context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	return r.orders[id], nil
}

func (r *memOrderRepo) UpdateStatus(_ context.Context, order *models.Order) error {
	stored, ok := r.orders[order.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Status = order.Status
	stored.AcceptedAt = order.AcceptedAt
	stored.CompletedAt = order.CompletedAt
	stored.CancelledAt = order.CancelledAt
	return nil
}

func (r *memOrderRepo) LockVoucher(_ context.Context, voucherID uuid.UUID) (*models.Voucher, error) {
	return r.vouchers[voucherID], nil
}

func (r *memOrderRepo) CountOrdersWithVoucher(_ context.Context, voucherID uuid.UUID) (int64, error) {
	var count int64
	for _, order := range r.orders {
		if order.VoucherID != nil && *order.VoucherID == voucherID && order.Status != enums.OrderStatusCancelled {
			count++
		}
	}
	return count, nil
}

func (r *memOrderRepo) CountUserOrdersWithVoucher(_ context.Context, voucherID, userID uuid.UUID) (int64, error) {
	var count int64
	for _, order := range r.orders {
		if order.VoucherID != nil && *order.VoucherID == voucherID &&
			order.UserID == userID && order.Status != enums.OrderStatusCancelled {
			count++
		}
	}
	return count, nil
}

type stubCostService struct {
	voucher *models.Voucher
}

func (s *stubCostService) GetUpdatedCost(_ context.Context, in costs.Input) (*costs.Calculation, error) {
	calc := &costs.Calculation{
		Breakdown: types.CostBreakdown{
			OrderValue: decimal.RequireFromString("200"),
			Quantity:   2,
			Discount:   decimal.RequireFromString("50"),
			Tax:        decimal.RequireFromString("7.50"),
			Total:      decimal.RequireFromString("157.50"),
		},
		Lines: []pricing.AdjustedLine{
			{
				ItemID:          uuid.New(),
				Name:            "burger",
				UnitPrice:       decimal.RequireFromString("100"),
				ActualUnitPrice: decimal.RequireFromString("100"),
				Quantity:        2,
				LineValue:       decimal.RequireFromString("200"),
			},
		},
		VoucherDiscount: decimal.RequireFromString("50"),
	}
	if in.VoucherCode != "" {
		calc.Voucher = s.voucher
	}
	return calc, nil
}

type stubGate struct {
	balance  decimal.Decimal
	granted  []uuid.UUID
	redeemed []decimal.Decimal
	revoked  []uuid.UUID
}

func (g *stubGate) Balance(_ context.Context, _ uuid.UUID) (decimal.Decimal, error) {
	return g.balance, nil
}

func (g *stubGate) GrantForOrder(_ context.Context, order *models.Order) {
	g.granted = append(g.granted, order.ID)
}

func (g *stubGate) RedeemInTx(_ context.Context, _ *gorm.DB, _, _ uuid.UUID, amount decimal.Decimal) error {
	g.redeemed = append(g.redeemed, amount)
	return nil
}

func (g *stubGate) RevokeForOrder(_ context.Context, order *models.Order) {
	g.revoked = append(g.revoked, order.ID)
}

type stubInvoicing struct {
	split []uuid.UUID
}

func (s *stubInvoicing) SplitOrder(_ context.Context, orderID uuid.UUID) (*invoicing.DiscountSplit, error) {
	s.split = append(s.split, orderID)
	return &invoicing.DiscountSplit{}, nil
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type serviceFixture struct {
	svc       Service
	repo      *memOrderRepo
	gate      *stubGate
	invoicing *stubInvoicing
	costs     *stubCostService
	db        *gorm.DB
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	outboxEvents := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	require.NoError(t, db.Exec(outboxEvents).Error)

	logg := logger.New(logger.Options{
		ServiceName: "test",
		Level:       logger.ParseLevel("debug"),
		Output:      io.Discard,
	})

	fixture := &serviceFixture{
		repo:      newMemOrderRepo(),
		gate:      &stubGate{},
		invoicing: &stubInvoicing{},
		costs:     &stubCostService{},
		db:        db,
	}
	svc, err := NewService(
		fixture.repo,
		fixture.costs,
		fixture.gate,
		fixture.invoicing,
		outbox.NewService(outbox.NewRepository(db), logg),
		gormTxRunner{db: db},
		logg,
	)
	require.NoError(t, err)
	fixture.svc = svc
	return fixture
}

func (f *serviceFixture) eventCount(t *testing.T, eventType enums.OutboxEventType, aggregateID uuid.UUID) int64 {
	t.Helper()

	var count int64
	require.NoError(t, f.db.Model(&models.OutboxEvent{}).
		Where("event_type = ? AND aggregate_id = ?", eventType, aggregateID).
		Count(&count).Error)
	return count
}

func createInput() CreateOrderInput {
	return CreateOrderInput{
		UserID:        uuid.New(),
		RestaurantID:  uuid.New(),
		OrderMethod:   enums.OrderMethodPickup,
		PaymentMethod: enums.PaymentMethodStripe,
		Platform:      enums.DeliveryPlatformNA,
	}
}

func TestCreateOrderFreezesCosts(t *testing.T) {
	f := newServiceFixture(t)

	order, err := f.svc.Create(context.Background(), createInput())
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("157.50")))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "burger", order.Items[0].Name)

	assert.EqualValues(t, 1, f.eventCount(t, enums.EventOrderCreated, order.ID))
	assert.EqualValues(t, 1, f.eventCount(t, enums.EventReceiptQueued, order.ID))
	assert.EqualValues(t, 0, f.eventCount(t, enums.EventDeliveryRequested, order.ID))

	// Prepaid orders earn their reward at creation.
	assert.Contains(t, f.gate.granted, order.ID)
}

func TestCreateOrderCashDefersReward(t *testing.T) {
	f := newServiceFixture(t)

	in := createInput()
	in.PaymentMethod = enums.PaymentMethodCash

	order, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.NotContains(t, f.gate.granted, order.ID)
}

func TestCreateOrderDeliveryRequestsDispatch(t *testing.T) {
	f := newServiceFixture(t)

	quote := decimal.RequireFromString("6")
	in := createInput()
	in.OrderMethod = enums.OrderMethodDelivery
	in.DeliveryQuoteFee = &quote

	order, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.eventCount(t, enums.EventDeliveryRequested, order.ID))
}

func TestCreateOrderRedeemsRewardBalance(t *testing.T) {
	f := newServiceFixture(t)
	f.gate.balance = decimal.RequireFromString("10")

	in := createInput()
	in.RedeemRewards = true

	order, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, order.RewardRedeemed.Equal(decimal.RequireFromString("10")))
	require.Len(t, f.gate.redeemed, 1)
	assert.True(t, f.gate.redeemed[0].Equal(decimal.RequireFromString("10")))
}

func TestCreateOrderHTVoucherTracksPlatformShare(t *testing.T) {
	f := newServiceFixture(t)

	voucher := &models.Voucher{
		ID:          uuid.New(),
		Code:        "HT50",
		Amount:      decimal.RequireFromString("50"),
		IsHTVoucher: true,
		Active:      true,
	}
	f.costs.voucher = voucher
	f.repo.vouchers[voucher.ID] = voucher

	in := createInput()
	in.VoucherCode = "HT50"

	order, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, order.VoucherID)
	assert.Equal(t, voucher.ID, *order.VoucherID)
	assert.True(t, order.HungrytigerDiscount.Equal(decimal.RequireFromString("50")))
}

func TestCreateOrderOneTimeVoucherSecondUseFails(t *testing.T) {
	f := newServiceFixture(t)

	voucher := &models.Voucher{
		ID:           uuid.New(),
		Code:         "ONCE",
		Amount:       decimal.RequireFromString("50"),
		IsOneTimeUse: true,
		Active:       true,
	}
	f.costs.voucher = voucher
	f.repo.vouchers[voucher.ID] = voucher

	in := createInput()
	in.VoucherCode = "ONCE"

	_, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeVoucherUsed))
}

func TestCreateOrderInactiveVoucherFails(t *testing.T) {
	f := newServiceFixture(t)

	voucher := &models.Voucher{
		ID:     uuid.New(),
		Code:   "GONE",
		Amount: decimal.RequireFromString("50"),
	}
	f.costs.voucher = voucher
	f.repo.vouchers[voucher.ID] = voucher

	in := createInput()
	in.VoucherCode = "GONE"

	_, err := f.svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodePromotionInvalid))
}

func TestCreateOrderUnknownPaymentMethod(t *testing.T) {
	f := newServiceFixture(t)

	in := createInput()
	in.PaymentMethod = enums.PaymentMethod("iou")

	_, err := f.svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestCreateOrderLocalDealRequiresCash(t *testing.T) {
	f := newServiceFixture(t)

	in := createInput()
	in.OrderMethod = enums.OrderMethodLocalDeal
	in.PaymentMethod = enums.PaymentMethodStripe

	_, err := f.svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestTransitionAcceptRunsEffects(t *testing.T) {
	f := newServiceFixture(t)

	in := createInput()
	in.PaymentMethod = enums.PaymentMethodCash
	order, err := f.svc.Create(context.Background(), in)
	require.NoError(t, err)

	updated, err := f.svc.Transition(context.Background(), order.ID, enums.OrderStatusAccepted, "")
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusAccepted, updated.Status)
	require.NotNil(t, updated.AcceptedAt)
	assert.EqualValues(t, 1, f.eventCount(t, enums.EventOrderAccepted, order.ID))

	// Cash orders earn their reward at acceptance, and acceptance triggers
	// the invoicing split.
	assert.Contains(t, f.gate.granted, order.ID)
	assert.Contains(t, f.invoicing.split, order.ID)
}

func TestTransitionDisallowed(t *testing.T) {
	f := newServiceFixture(t)

	order, err := f.svc.Create(context.Background(), createInput())
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), order.ID, enums.OrderStatusCompleted, "")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeStateConflict))
}

func TestTransitionCancelRevokesReward(t *testing.T) {
	f := newServiceFixture(t)

	order, err := f.svc.Create(context.Background(), createInput())
	require.NoError(t, err)

	updated, err := f.svc.Transition(context.Background(), order.ID, enums.OrderStatusCancelled, "customer request")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, updated.Status)
	require.NotNil(t, updated.CancelledAt)
	assert.Contains(t, f.gate.revoked, order.ID)
}

func TestTransitionCompletedFromAccepted(t *testing.T) {
	f := newServiceFixture(t)

	order, err := f.svc.Create(context.Background(), createInput())
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), order.ID, enums.OrderStatusAccepted, "")
	require.NoError(t, err)

	updated, err := f.svc.Transition(context.Background(), order.ID, enums.OrderStatusCompleted, "")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
}

func TestTransitionUnknownOrder(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Transition(context.Background(), uuid.New(), enums.OrderStatusAccepted, "")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestTransitionUnknownStatus(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Transition(context.Background(), uuid.New(), enums.OrderStatus("paused"), "")
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
