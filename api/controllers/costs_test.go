package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/internal/costs"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
	pkgerrors "github.com/remotekitchen/chatchef-backend-new/pkg/errors"
	"github.com/remotekitchen/chatchef-backend-new/pkg/logger"
	"github.com/remotekitchen/chatchef-backend-new/pkg/types"
)

type stubCostService struct {
	calc *costs.Calculation
	err  error
	got  *costs.Input
}

func (s *stubCostService) GetUpdatedCost(_ context.Context, in costs.Input) (*costs.Calculation, error) {
	s.got = &in
	if s.err != nil {
		return nil, s.err
	}
	return s.calc, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func previewBody(userID, restaurantID, itemID uuid.UUID) string {
	return `{
		"user_id": "` + userID.String() + `",
		"restaurant_id": "` + restaurantID.String() + `",
		"items": [{"menu_item_id": "` + itemID.String() + `", "quantity": 2}],
		"order_method": "pickup"
	}`
}

func TestCostPreview(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	restaurantID := uuid.New()
	itemID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubCostService{calc: &costs.Calculation{
			Breakdown: types.CostBreakdown{
				OrderValue: decimal.RequireFromString("200"),
				Total:      decimal.RequireFromString("210"),
			},
		}}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/costs/preview", strings.NewReader(previewBody(userID, restaurantID, itemID)))
		rec := httptest.NewRecorder()
		CostPreview(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.got == nil {
			t.Fatalf("expected the service to be invoked")
		}
		if stub.got.UserID != userID {
			t.Fatalf("expected user %s, got %s", userID, stub.got.UserID)
		}
		if stub.got.OrderMethod != enums.OrderMethodPickup {
			t.Fatalf("expected pickup, got %s", stub.got.OrderMethod)
		}

		var envelope struct {
			Data costPreviewResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if !envelope.Data.Costs.Total.Equal(decimal.RequireFromString("210")) {
			t.Fatalf("expected total 210, got %s", envelope.Data.Costs.Total)
		}
	})

	t.Run("invalid user id", func(t *testing.T) {
		body := `{"user_id": "nope", "restaurant_id": "` + restaurantID.String() + `", "items": [{"menu_item_id": "` + itemID.String() + `", "quantity": 1}], "order_method": "pickup"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/costs/preview", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CostPreview(&stubCostService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid user id, got %d", rec.Code)
		}
	})

	t.Run("missing items", func(t *testing.T) {
		body := `{"user_id": "` + userID.String() + `", "restaurant_id": "` + restaurantID.String() + `", "order_method": "pickup"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/costs/preview", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CostPreview(&stubCostService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing items, got %d", rec.Code)
		}
	})

	t.Run("unknown order method", func(t *testing.T) {
		body := `{"user_id": "` + userID.String() + `", "restaurant_id": "` + restaurantID.String() + `", "items": [{"menu_item_id": "` + itemID.String() + `", "quantity": 1}], "order_method": "teleport"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/costs/preview", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CostPreview(&stubCostService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown order method, got %d", rec.Code)
		}
	})

	t.Run("missing delivery quote", func(t *testing.T) {
		stub := &stubCostService{err: pkgerrors.New(pkgerrors.CodeMissingQuote, "delivery order requires a delivery quote")}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/costs/preview", strings.NewReader(previewBody(userID, restaurantID, itemID)))
		rec := httptest.NewRecorder()
		CostPreview(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing quote, got %d", rec.Code)
		}
	})

	t.Run("voucher already used", func(t *testing.T) {
		stub := &stubCostService{err: pkgerrors.New(pkgerrors.CodeVoucherUsed, "voucher has already been used")}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/costs/preview", strings.NewReader(previewBody(userID, restaurantID, itemID)))
		rec := httptest.NewRecorder()
		CostPreview(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409 for used voucher, got %d", rec.Code)
		}

		var envelope types.ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decoding error response: %v", err)
		}
		if envelope.Error.Code != string(pkgerrors.CodeVoucherUsed) {
			t.Fatalf("expected error code %s, got %s", pkgerrors.CodeVoucherUsed, envelope.Error.Code)
		}
	})
}
