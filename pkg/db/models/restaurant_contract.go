package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RestaurantContract holds the commercial terms used when splitting discounts
// and computing commission on an invoice.
type RestaurantContract struct {
	ID                            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID                  uuid.UUID       `gorm:"column:restaurant_id;type:uuid;not null;uniqueIndex"`
	BogoBearByRestaurantPct       decimal.Decimal `gorm:"column:bogo_bear_by_restaurant_pct;type:numeric(6,2);not null;default:100"`
	RestaurantDiscountPct         decimal.Decimal `gorm:"column:restaurant_discount_pct;type:numeric(6,2);not null;default:100"`
	HTVoucherPctBorneByRestaurant decimal.Decimal `gorm:"column:ht_voucher_pct_borne_by_restaurant;type:numeric(6,2);not null;default:0"`
	CommissionPct                 decimal.Decimal `gorm:"column:commission_pct;type:numeric(6,2);not null;default:0"`
	CreatedAt                     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
