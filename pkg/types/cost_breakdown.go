package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CostBreakdown is the aggregate produced by a cost calculation. Every field is
// rounded to two decimal places; Total always satisfies
//
//	Total = OrderValue - Discount + DeliveryFee + Tax + ConvenienceFee +
//	        BagPrice + UtensilPrice + TipsForRestaurant
//
// Discount includes BogoDiscount and BxGyDiscount; those two are named
// sub-components, not additive on top.
type CostBreakdown struct {
	OrderValue          decimal.Decimal `json:"order_value"`
	Quantity            int             `json:"quantity"`
	Discount            decimal.Decimal `json:"discount"`
	BogoDiscount        decimal.Decimal `json:"bogo_discount"`
	BxGyDiscount        decimal.Decimal `json:"bxgy_discount"`
	DeliveryFee         decimal.Decimal `json:"delivery_fee"`
	OriginalDeliveryFee decimal.Decimal `json:"original_delivery_fee"`
	DeliveryDiscount    decimal.Decimal `json:"delivery_discount"`
	Tax                 decimal.Decimal `json:"tax"`
	ConvenienceFee      decimal.Decimal `json:"convenience_fee"`
	BagPrice            decimal.Decimal `json:"bag_price"`
	UtensilPrice        decimal.Decimal `json:"utensil_price"`
	TipsForRestaurant   decimal.Decimal `json:"tips_for_restaurant"`
	Total               decimal.Decimal `json:"total"`
}

// Value serializes the breakdown to JSONB.
func (c CostBreakdown) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan decodes JSONB into the breakdown.
func (c *CostBreakdown) Scan(value interface{}) error {
	if value == nil {
		*c = CostBreakdown{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, c)
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
