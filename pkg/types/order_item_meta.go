package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemMeta is the per-line snapshot persisted on the order so that
// invoice-time recomputation does not depend on the live menu.
type OrderItemMeta struct {
	MenuItemID         uuid.UUID       `json:"menu_item_id"`
	Name               string          `json:"name"`
	BasePrice          decimal.Decimal `json:"base_price"`
	Quantity           int             `json:"quantity"`
	IsBogo             bool            `json:"is_bogo"`
	BogoInflatePercent decimal.Decimal `json:"bogo_inflate_percent"`
	LineTotal          decimal.Decimal `json:"line_total"`
}

// OrderItemMetas is the JSONB array stored on the order row.
type OrderItemMetas []OrderItemMeta

// Value serializes the snapshot to JSON.
func (o OrderItemMetas) Value() (driver.Value, error) {
	if o == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Scan decodes JSONB into the snapshot slice.
func (o *OrderItemMetas) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded OrderItemMetas
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*o = decoded
	return nil
}
