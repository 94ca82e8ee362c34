package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/api/responses"
	"github.com/remotekitchen/chatchef-backend-new/api/validators"
	"github.com/remotekitchen/chatchef-backend-new/internal/orders"
	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
	pkgerrors "github.com/remotekitchen/chatchef-backend-new/pkg/errors"
	"github.com/remotekitchen/chatchef-backend-new/pkg/logger"
	"github.com/remotekitchen/chatchef-backend-new/pkg/types"
)

type createOrderRequest struct {
	UserID           string             `json:"user_id" validate:"required,uuid"`
	RestaurantID     string             `json:"restaurant_id" validate:"required,uuid"`
	Items            []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	OrderMethod      string             `json:"order_method" validate:"required"`
	PaymentMethod    string             `json:"payment_method" validate:"required"`
	Platform         string             `json:"platform"`
	VoucherCode      string             `json:"voucher_code"`
	BxGyID           *string            `json:"bxgy_id" validate:"omitempty,uuid"`
	SpendRuleID      *string            `json:"spend_rule_id" validate:"omitempty,uuid"`
	DeliveryQuoteFee *decimal.Decimal   `json:"delivery_quote_fee"`
	BagQuantity      int                `json:"bag_quantity" validate:"min=0"`
	UtensilQuantity  int                `json:"utensil_quantity" validate:"min=0"`
	Tips             decimal.Decimal    `json:"tips"`
	RedeemRewards    bool               `json:"redeem_rewards"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"max=512"`
}

type orderResponse struct {
	ID             uuid.UUID            `json:"id"`
	Status         enums.OrderStatus    `json:"status"`
	OrderMethod    enums.OrderMethod    `json:"order_method"`
	PaymentMethod  enums.PaymentMethod  `json:"payment_method"`
	VoucherCode    *string              `json:"voucher_code,omitempty"`
	Items          types.OrderItemMetas `json:"items"`
	Costs          types.CostBreakdown  `json:"costs"`
	Total          decimal.Decimal      `json:"total"`
	RewardRedeemed decimal.Decimal      `json:"reward_redeemed"`
}

// CreateOrder places an order with a frozen cost breakdown.
func CreateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		in, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), *in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, toOrderResponse(order))
	}
}

// GetOrder returns an order by id.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id must be a valid uuid"))
			return
		}

		order, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponse(order))
	}
}

// UpdateOrderStatus moves an order through its lifecycle.
func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id must be a valid uuid"))
			return
		}

		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
			return
		}

		order, err := svc.Transition(r.Context(), id, status, body.Reason)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponse(order))
	}
}

func (b createOrderRequest) toInput() (*orders.CreateOrderInput, error) {
	preview := costPreviewRequest{
		UserID:           b.UserID,
		RestaurantID:     b.RestaurantID,
		Items:            b.Items,
		OrderMethod:      b.OrderMethod,
		Platform:         b.Platform,
		VoucherCode:      b.VoucherCode,
		BxGyID:           b.BxGyID,
		SpendRuleID:      b.SpendRuleID,
		DeliveryQuoteFee: b.DeliveryQuoteFee,
		BagQuantity:      b.BagQuantity,
		UtensilQuantity:  b.UtensilQuantity,
		Tips:             b.Tips,
	}
	base, err := preview.toInput()
	if err != nil {
		return nil, err
	}
	paymentMethod, err := enums.ParsePaymentMethod(b.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	return &orders.CreateOrderInput{
		UserID:           base.UserID,
		RestaurantID:     base.RestaurantID,
		Items:            base.Items,
		OrderMethod:      base.OrderMethod,
		PaymentMethod:    paymentMethod,
		Platform:         base.Platform,
		VoucherCode:      base.VoucherCode,
		BxGyID:           base.BxGyID,
		SpendRuleID:      base.SpendRuleID,
		DeliveryQuoteFee: base.DeliveryQuoteFee,
		BagQty:           base.BagQty,
		UtensilQty:       base.UtensilQty,
		Tips:             base.Tips,
		RedeemRewards:    b.RedeemRewards,
	}, nil
}

func toOrderResponse(order *models.Order) orderResponse {
	return orderResponse{
		ID:             order.ID,
		Status:         order.Status,
		OrderMethod:    order.OrderMethod,
		PaymentMethod:  order.PaymentMethod,
		VoucherCode:    order.VoucherCode,
		Items:          order.Items,
		Costs:          order.Costs,
		Total:          order.Total,
		RewardRedeemed: order.RewardRedeemed,
	}
}
