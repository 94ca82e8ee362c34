package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RestaurantFee carries the per-restaurant surcharge configuration applied on
// every cost calculation.
type RestaurantFee struct {
	ID                      uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID            uuid.UUID       `gorm:"column:restaurant_id;type:uuid;not null;uniqueIndex"`
	BagUnitPrice            decimal.Decimal `gorm:"column:bag_unit_price;type:numeric(12,2);not null;default:0"`
	UtensilUnitPrice        decimal.Decimal `gorm:"column:utensil_unit_price;type:numeric(12,2);not null;default:0"`
	TaxRate                 decimal.Decimal `gorm:"column:tax_rate;type:numeric(6,4);not null;default:0"`
	ConvenienceFee          decimal.Decimal `gorm:"column:convenience_fee;type:numeric(12,2);not null;default:0"`
	ConvenienceIsPercentage bool            `gorm:"column:convenience_is_percentage;not null;default:false"`
	CreatedAt               time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
