package costs

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remotekitchen/chatchef-backend-new/internal/catalog"
	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
	pkgerrors "github.com/remotekitchen/chatchef-backend-new/pkg/errors"
	"github.com/remotekitchen/chatchef-backend-new/pkg/logger"
	"github.com/remotekitchen/chatchef-backend-new/pkg/metrics"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type stubCatalog struct {
	items map[uuid.UUID]models.MenuItem
	deals map[uuid.UUID]models.LocalDeal
}

func (s *stubCatalog) ResolveLines(_ context.Context, _ uuid.UUID, items []catalog.ItemQuantity) ([]catalog.ResolvedLine, error) {
	resolved := make([]catalog.ResolvedLine, 0, len(items))
	for _, iq := range items {
		item, ok := s.items[iq.MenuItemID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
		}
		line := catalog.ResolvedLine{Item: item, Quantity: iq.Quantity}
		if deal, ok := s.deals[iq.MenuItemID]; ok {
			line.Deal = &deal
		}
		resolved = append(resolved, line)
	}
	return resolved, nil
}

type stubPromos struct {
	voucher     *models.Voucher
	voucherUses int64
	userUses    int64
	bogoRules   []models.BogoRule
	bxgy        *models.BxGyRule
	spend       *models.SpendRule
	bestSpend   *models.SpendRule
}

func (s *stubPromos) FindVoucherByCode(_ context.Context, code string) (*models.Voucher, error) {
	if s.voucher != nil && s.voucher.Code == code {
		return s.voucher, nil
	}
	return nil, nil
}

func (s *stubPromos) FindBogoRules(_ context.Context, _ uuid.UUID) ([]models.BogoRule, error) {
	return s.bogoRules, nil
}

func (s *stubPromos) FindBxGyRule(_ context.Context, _ uuid.UUID) (*models.BxGyRule, error) {
	return s.bxgy, nil
}

func (s *stubPromos) FindSpendRule(_ context.Context, _ uuid.UUID) (*models.SpendRule, error) {
	return s.spend, nil
}

func (s *stubPromos) FindBestSpendRule(_ context.Context, _ uuid.UUID, _ decimal.Decimal) (*models.SpendRule, error) {
	return s.bestSpend, nil
}

func (s *stubPromos) CountOrdersWithVoucher(_ context.Context, _ uuid.UUID) (int64, error) {
	return s.voucherUses, nil
}

func (s *stubPromos) CountUserOrdersWithVoucher(_ context.Context, _, _ uuid.UUID) (int64, error) {
	return s.userUses, nil
}

type stubMarkup struct {
	markup decimal.Decimal
}

func (s *stubMarkup) ResolveMarkup(_ context.Context, _, _ uuid.UUID) (decimal.Decimal, error) {
	return s.markup, nil
}

type stubSchedules struct {
	schedule *models.RestaurantFee
}

func (s *stubSchedules) FindSchedule(_ context.Context, _ uuid.UUID) (*models.RestaurantFee, error) {
	return s.schedule, nil
}

func newTestService(t *testing.T, cat *stubCatalog, promos *stubPromos, markup *stubMarkup, schedules *stubSchedules) Service {
	t.Helper()

	logg := logger.New(logger.Options{
		ServiceName: "test",
		Level:       logger.ParseLevel("debug"),
		Output:      io.Discard,
	})
	svc, err := NewService(cat, promos, markup, schedules, logg, metrics.NewCostMetrics(prometheus.NewRegistry()))
	require.NoError(t, err)
	return svc
}

func menuItem(price string) models.MenuItem {
	return models.MenuItem{
		ID:        uuid.New(),
		Name:      "item",
		BasePrice: decimal.RequireFromString(price),
		Available: true,
	}
}

func TestGetUpdatedCostPickupNoPromotions(t *testing.T) {
	item := menuItem("100")
	svc := newTestService(t,
		&stubCatalog{items: map[uuid.UUID]models.MenuItem{item.ID: item}},
		&stubPromos{},
		&stubMarkup{},
		&stubSchedules{schedule: &models.RestaurantFee{TaxRate: dec("0.05")}},
	)

	calc, err := svc.GetUpdatedCost(context.Background(), Input{
		UserID:       uuid.New(),
		RestaurantID: uuid.New(),
		Items:        []catalog.ItemQuantity{{MenuItemID: item.ID, Quantity: 2}},
		OrderMethod:  enums.OrderMethodPickup,
	})
	require.NoError(t, err)

	assert.True(t, calc.Breakdown.OrderValue.Equal(dec("200")))
	assert.True(t, calc.Breakdown.Discount.IsZero())
	assert.True(t, calc.Breakdown.Tax.Equal(dec("10")))
	assert.True(t, calc.Breakdown.Total.Equal(dec("210")), "total %s", calc.Breakdown.Total)
	assert.Nil(t, calc.Voucher)
}

func TestGetUpdatedCostFlatVoucher(t *testing.T) {
	item := menuItem("100")
	voucher := &models.Voucher{
		ID:       uuid.New(),
		Code:     "SAVE50",
		Amount:   dec("50"),
		MinSpend: dec("100"),
		Active:   true,
	}
	svc := newTestService(t,
		&stubCatalog{items: map[uuid.UUID]models.MenuItem{item.ID: item}},
		&stubPromos{voucher: voucher},
		&stubMarkup{},
		&stubSchedules{schedule: &models.RestaurantFee{TaxRate: dec("0.05")}},
	)

	calc, err := svc.GetUpdatedCost(context.Background(), Input{
		UserID:       uuid.New(),
		RestaurantID: uuid.New(),
		Items:        []catalog.ItemQuantity{{MenuItemID: item.ID, Quantity: 2}},
		OrderMethod:  enums.OrderMethodPickup,
		VoucherCode:  "SAVE50",
	})
	require.NoError(t, err)

	assert.True(t, calc.Breakdown.Discount.Equal(dec("50")))
	assert.True(t, calc.VoucherDiscount.Equal(dec("50")))
	// Tax applies to the discounted subtotal.
	assert.True(t, calc.Breakdown.Tax.Equal(dec("7.50")))
	assert.True(t, calc.Breakdown.Total.Equal(dec("157.50")))
	require.NotNil(t, calc.Voucher)
	assert.Equal(t, voucher.ID, calc.Voucher.ID)
}

func TestGetUpdatedCostDeliveryWithoutQuote(t *testing.T) {
	item := menuItem("100")
	svc := newTestService(t,
		&stubCatalog{items: map[uuid.UUID]models.MenuItem{item.ID: item}},
		&stubPromos{},
		&stubMarkup{},
		&stubSchedules{},
	)

	calc, err := svc.GetUpdatedCost(context.Background(), Input{
		UserID:       uuid.New(),
		RestaurantID: uuid.New(),
		Items:        []catalog.ItemQuantity{{MenuItemID: item.ID, Quantity: 1}},
		OrderMethod:  enums.OrderMethodDelivery,
	})
	require.Error(t, err)
	assert.Nil(t, calc)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeMissingQuote))
}

func TestGetUpdatedCostDeliveryAppliesMarkup(t *testing.T) {
	item := menuItem("100")
	quote := dec("6")
	svc := newTestService(t,
		&stubCatalog{items: map[uuid.UUID]models.MenuItem{item.ID: item}},
		&stubPromos{},
		&stubMarkup{markup: dec("2.50")},
		&stubSchedules{schedule: &models.RestaurantFee{TaxRate: dec("0.05")}},
	)

	calc, err := svc.GetUpdatedCost(context.Background(), Input{
		UserID:           uuid.New(),
		RestaurantID:     uuid.New(),
		Items:            []catalog.ItemQuantity{{MenuItemID: item.ID, Quantity: 1}},
		OrderMethod:      enums.OrderMethodDelivery,
		DeliveryQuoteFee: &quote,
	})
	require.NoError(t, err)
	assert.True(t, calc.Breakdown.DeliveryFee.Equal(dec("8.50")))
	assert.True(t, calc.Breakdown.OriginalDeliveryFee.Equal(dec("6")))
}

func TestGetUpdatedCostUnknownVoucherCode(t *testing.T) {
	item := menuItem("100")
	svc := newTestService(t,
		&stubCatalog{items: map[uuid.UUID]models.MenuItem{item.ID: item}},
		&stubPromos{},
		&stubMarkup{},
		&stubSchedules{},
	)

	_, err := svc.GetUpdatedCost(context.Background(), Input{
		UserID:       uuid.New(),
		RestaurantID: uuid.New(),
		Items:        []catalog.ItemQuantity{{MenuItemID: item.ID, Quantity: 1}},
		OrderMethod:  enums.OrderMethodPickup,
		VoucherCode:  "NOPE",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodePromotionInvalid))
}

func TestGetUpdatedCostVoucherUsageLimits(t *testing.T) {
	item := menuItem("100")
	base := Input{
		UserID:       uuid.New(),
		RestaurantID: uuid.New(),
		Items:        []catalog.ItemQuantity{{MenuItemID: item.ID, Quantity: 1}},
		OrderMethod:  enums.OrderMethodPickup,
		VoucherCode:  "ONCE",
	}

	t.Run("one time use exhausted", func(t *testing.T) {
		voucher := &models.Voucher{ID: uuid.New(), Code: "ONCE", Amount: dec("10"), IsOneTimeUse: true, Active: true}
		svc := newTestService(t,
			&stubCatalog{items: map[uuid.UUID]models.MenuItem{item.ID: item}},
			&stubPromos{voucher: voucher, voucherUses: 1},
			&stubMarkup{},
			&stubSchedules{},
		)

		_, err := svc.GetUpdatedCost(context.Background(), base)
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeVoucherUsed))
	})

	t.Run("per user cap reached", func(t *testing.T) {
		voucher := &models.Voucher{ID: uuid.New(), Code: "ONCE", Amount: dec("10"), MaxUsesPerUser: 2, Active: true}
		svc := newTestService(t,
			&stubCatalog{items: map[uuid.UUID]models.MenuItem{item.ID: item}},
			&stubPromos{voucher: voucher, userUses: 2},
			&stubMarkup{},
			&stubSchedules{},
		)

		_, err := svc.GetUpdatedCost(context.Background(), base)
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeVoucherMaxUses))
	})
}

func TestGetUpdatedCostTotalIdentity(t *testing.T) {
	bogoPrice := dec("41.99")
	bogoItem := models.MenuItem{
		ID:        uuid.New(),
		Name:      "bogo item",
		BasePrice: bogoPrice,
		IsBogo:    true,
		Available: true,
	}
	plain := menuItem("12.49")
	quote := dec("5.75")

	svc := newTestService(t,
		&stubCatalog{items: map[uuid.UUID]models.MenuItem{bogoItem.ID: bogoItem, plain.ID: plain}},
		&stubPromos{bestSpend: &models.SpendRule{
			ID:        uuid.New(),
			Threshold: dec("50"),
			Amount:    dec("7.5"),
			Active:    true,
		}},
		&stubMarkup{markup: dec("1.99")},
		&stubSchedules{schedule: &models.RestaurantFee{
			TaxRate:          dec("0.0825"),
			ConvenienceFee:   dec("1.5"),
			BagUnitPrice:     dec("0.25"),
			UtensilUnitPrice: dec("0.10"),
		}},
	)

	in := Input{
		UserID:       uuid.New(),
		RestaurantID: uuid.New(),
		Items: []catalog.ItemQuantity{
			{MenuItemID: bogoItem.ID, Quantity: 2},
			{MenuItemID: plain.ID, Quantity: 3},
		},
		OrderMethod:      enums.OrderMethodDelivery,
		DeliveryQuoteFee: &quote,
		BagQty:           1,
		UtensilQty:       2,
		Tips:             dec("3"),
	}

	calc, err := svc.GetUpdatedCost(context.Background(), in)
	require.NoError(t, err)

	b := calc.Breakdown
	sum := b.OrderValue.
		Sub(b.Discount).
		Add(b.DeliveryFee).
		Add(b.Tax).
		Add(b.ConvenienceFee).
		Add(b.BagPrice).
		Add(b.UtensilPrice).
		Add(b.TipsForRestaurant)
	assert.True(t, b.Total.Equal(sum), "total %s != sum %s", b.Total, sum)

	// Same input, same breakdown.
	again, err := svc.GetUpdatedCost(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, b, again.Breakdown)
}

func TestGetUpdatedCostLocalDealSkipsPromotions(t *testing.T) {
	item := menuItem("12")
	dealPrice := dec("8")
	svc := newTestService(t,
		&stubCatalog{
			items: map[uuid.UUID]models.MenuItem{item.ID: item},
			deals: map[uuid.UUID]models.LocalDeal{item.ID: {
				ID:         uuid.New(),
				MenuItemID: item.ID,
				DealPrice:  dealPrice,
				Active:     true,
			}},
		},
		&stubPromos{voucher: &models.Voucher{ID: uuid.New(), Code: "SAVE", Amount: dec("5"), Active: true}},
		&stubMarkup{},
		&stubSchedules{},
	)

	calc, err := svc.GetUpdatedCost(context.Background(), Input{
		UserID:       uuid.New(),
		RestaurantID: uuid.New(),
		Items:        []catalog.ItemQuantity{{MenuItemID: item.ID, Quantity: 2}},
		OrderMethod:  enums.OrderMethodLocalDeal,
		VoucherCode:  "SAVE",
	})
	require.NoError(t, err)
	assert.True(t, calc.Breakdown.OrderValue.Equal(dec("16")))
	assert.True(t, calc.Breakdown.Discount.IsZero())
	assert.Nil(t, calc.Voucher)
}
