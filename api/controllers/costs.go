package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/api/responses"
	"github.com/remotekitchen/chatchef-backend-new/api/validators"
	"github.com/remotekitchen/chatchef-backend-new/internal/catalog"
	"github.com/remotekitchen/chatchef-backend-new/internal/costs"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
	pkgerrors "github.com/remotekitchen/chatchef-backend-new/pkg/errors"
	"github.com/remotekitchen/chatchef-backend-new/pkg/logger"
	"github.com/remotekitchen/chatchef-backend-new/pkg/types"
)

type orderItemRequest struct {
	MenuItemID string `json:"menu_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"min=0"`
}

type costPreviewRequest struct {
	UserID           string             `json:"user_id" validate:"required,uuid"`
	RestaurantID     string             `json:"restaurant_id" validate:"required,uuid"`
	Items            []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	OrderMethod      string             `json:"order_method" validate:"required"`
	Platform         string             `json:"platform"`
	VoucherCode      string             `json:"voucher_code"`
	BxGyID           *string            `json:"bxgy_id" validate:"omitempty,uuid"`
	SpendRuleID      *string            `json:"spend_rule_id" validate:"omitempty,uuid"`
	DeliveryQuoteFee *decimal.Decimal   `json:"delivery_quote_fee"`
	BagQuantity      int                `json:"bag_quantity" validate:"min=0"`
	UtensilQuantity  int                `json:"utensil_quantity" validate:"min=0"`
	Tips             decimal.Decimal    `json:"tips"`
}

type costPreviewResponse struct {
	Costs      types.CostBreakdown `json:"costs"`
	Overflowed bool                `json:"discount_clamped"`
}

// CostPreview computes the cost breakdown for a prospective order without
// persisting anything.
func CostPreview(svc costs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "cost service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body costPreviewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		in, err := body.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		calc, err := svc.GetUpdatedCost(r.Context(), *in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, costPreviewResponse{
			Costs:      calc.Breakdown,
			Overflowed: calc.Overflowed,
		})
	}
}

func (b costPreviewRequest) toInput() (*costs.Input, error) {
	userID, err := uuid.Parse(b.UserID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id must be a valid uuid")
	}
	restaurantID, err := uuid.Parse(b.RestaurantID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "restaurant_id must be a valid uuid")
	}
	orderMethod, err := enums.ParseOrderMethod(b.OrderMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	platform := enums.DeliveryPlatformNA
	if b.Platform != "" {
		platform, err = enums.ParseDeliveryPlatform(b.Platform)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
	}

	items, err := parseItems(b.Items)
	if err != nil {
		return nil, err
	}
	bxgyID, err := parseOptionalUUID(b.BxGyID, "bxgy_id")
	if err != nil {
		return nil, err
	}
	spendRuleID, err := parseOptionalUUID(b.SpendRuleID, "spend_rule_id")
	if err != nil {
		return nil, err
	}

	return &costs.Input{
		UserID:           userID,
		RestaurantID:     restaurantID,
		Items:            items,
		OrderMethod:      orderMethod,
		Platform:         platform,
		VoucherCode:      b.VoucherCode,
		BxGyID:           bxgyID,
		SpendRuleID:      spendRuleID,
		DeliveryQuoteFee: b.DeliveryQuoteFee,
		BagQty:           b.BagQuantity,
		UtensilQty:       b.UtensilQuantity,
		Tips:             b.Tips,
	}, nil
}

func parseItems(items []orderItemRequest) ([]catalog.ItemQuantity, error) {
	parsed := make([]catalog.ItemQuantity, 0, len(items))
	for _, item := range items {
		id, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu_item_id must be a valid uuid")
		}
		parsed = append(parsed, catalog.ItemQuantity{MenuItemID: id, Quantity: item.Quantity})
	}
	return parsed, nil
}

func parseOptionalUUID(value *string, field string) (*uuid.UUID, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*value)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, field+" must be a valid uuid")
	}
	return &id, nil
}
