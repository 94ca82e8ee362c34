package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is a sellable restaurant item. When IsBogo is set the listed
// BasePrice is the inflated storefront price; the chargeable unit price is
// derived from BogoInflatePercent at calculation time.
type MenuItem struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID       uuid.UUID        `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Name               string           `gorm:"column:name;not null"`
	BasePrice          decimal.Decimal  `gorm:"column:base_price;type:numeric(12,2);not null"`
	IsBogo             bool             `gorm:"column:is_bogo;not null;default:false"`
	BogoInflatePercent *decimal.Decimal `gorm:"column:bogo_inflate_percent;type:numeric(6,2)"`
	Available          bool             `gorm:"column:available;not null;default:true"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
