package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/internal/orders"
	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
	pkgerrors "github.com/remotekitchen/chatchef-backend-new/pkg/errors"
	"github.com/remotekitchen/chatchef-backend-new/pkg/types"
)

type stubOrderService struct {
	order      *models.Order
	createErr  error
	getErr     error
	transition error
	gotCreate  *orders.CreateOrderInput
	gotStatus  enums.OrderStatus
	gotReason  string
}

func (s *stubOrderService) Create(_ context.Context, in orders.CreateOrderInput) (*models.Order, error) {
	s.gotCreate = &in
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.order, nil
}

func (s *stubOrderService) GetByID(_ context.Context, _ uuid.UUID) (*models.Order, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.order, nil
}

func (s *stubOrderService) Transition(_ context.Context, _ uuid.UUID, to enums.OrderStatus, reason string) (*models.Order, error) {
	s.gotStatus = to
	s.gotReason = reason
	if s.transition != nil {
		return nil, s.transition
	}
	return s.order, nil
}

func sampleOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		RestaurantID:  uuid.New(),
		Status:        enums.OrderStatusPending,
		OrderMethod:   enums.OrderMethodPickup,
		PaymentMethod: enums.PaymentMethodStripe,
		Items:         types.OrderItemMetas{},
		Costs: types.CostBreakdown{
			OrderValue: decimal.RequireFromString("200"),
			Total:      decimal.RequireFromString("210"),
		},
		Total: decimal.RequireFromString("210"),
	}
}

func createOrderBody(userID, restaurantID, itemID uuid.UUID) string {
	return `{
		"user_id": "` + userID.String() + `",
		"restaurant_id": "` + restaurantID.String() + `",
		"items": [{"menu_item_id": "` + itemID.String() + `", "quantity": 2}],
		"order_method": "pickup",
		"payment_method": "stripe"
	}`
}

func TestCreateOrder(t *testing.T) {
	logg := testLogger()
	userID := uuid.New()
	restaurantID := uuid.New()
	itemID := uuid.New()

	t.Run("success", func(t *testing.T) {
		stub := &stubOrderService{order: sampleOrder()}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(createOrderBody(userID, restaurantID, itemID)))
		rec := httptest.NewRecorder()
		CreateOrder(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.gotCreate == nil {
			t.Fatalf("expected Create to be invoked")
		}
		if stub.gotCreate.PaymentMethod != enums.PaymentMethodStripe {
			t.Fatalf("expected stripe, got %s", stub.gotCreate.PaymentMethod)
		}

		var envelope struct {
			Data orderResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if envelope.Data.Status != enums.OrderStatusPending {
			t.Fatalf("expected pending, got %s", envelope.Data.Status)
		}
	})

	t.Run("unknown payment method", func(t *testing.T) {
		body := `{"user_id": "` + userID.String() + `", "restaurant_id": "` + restaurantID.String() + `", "items": [{"menu_item_id": "` + itemID.String() + `", "quantity": 1}], "order_method": "pickup", "payment_method": "iou"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
		rec := httptest.NewRecorder()
		CreateOrder(&stubOrderService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown payment method, got %d", rec.Code)
		}
	})

	t.Run("voucher race rejected", func(t *testing.T) {
		stub := &stubOrderService{createErr: pkgerrors.New(pkgerrors.CodeVoucherUsed, "voucher has already been used")}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(createOrderBody(userID, restaurantID, itemID)))
		rec := httptest.NewRecorder()
		CreateOrder(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409 for used voucher, got %d", rec.Code)
		}
	})
}

func TestGetOrder(t *testing.T) {
	logg := testLogger()

	makeRequest := func(stub *stubOrderService, orderID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+orderID, nil)
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("orderId", orderID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()
		GetOrder(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("success", func(t *testing.T) {
		order := sampleOrder()
		rec := makeRequest(&stubOrderService{order: order}, order.ID.String())
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := makeRequest(&stubOrderService{}, "not-a-uuid")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		stub := &stubOrderService{getErr: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
		rec := makeRequest(stub, uuid.NewString())
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	logg := testLogger()

	makeRequest := func(stub *stubOrderService, orderID, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID+"/status", strings.NewReader(body))
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("orderId", orderID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()
		UpdateOrderStatus(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("success", func(t *testing.T) {
		order := sampleOrder()
		order.Status = enums.OrderStatusAccepted
		stub := &stubOrderService{order: order}
		rec := makeRequest(stub, order.ID.String(), `{"status": "accepted", "reason": "kitchen confirmed"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.gotStatus != enums.OrderStatusAccepted {
			t.Fatalf("expected accepted, got %s", stub.gotStatus)
		}
		if stub.gotReason != "kitchen confirmed" {
			t.Fatalf("unexpected reason %q", stub.gotReason)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		rec := makeRequest(&stubOrderService{}, uuid.NewString(), `{"status": "paused"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown status, got %d", rec.Code)
		}
	})

	t.Run("disallowed transition", func(t *testing.T) {
		stub := &stubOrderService{transition: pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed")}
		rec := makeRequest(stub, uuid.NewString(), `{"status": "completed"}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 for disallowed transition, got %d", rec.Code)
		}
	})
}
