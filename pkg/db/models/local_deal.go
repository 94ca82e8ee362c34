package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocalDeal pins a fixed deal price on a menu item. Orders placed through the
// local_deal method charge DealPrice and skip every other promotion.
type LocalDeal struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID uuid.UUID       `gorm:"column:restaurant_id;type:uuid;not null;index"`
	MenuItemID   uuid.UUID       `gorm:"column:menu_item_id;type:uuid;not null;uniqueIndex"`
	DealPrice    decimal.Decimal `gorm:"column:deal_price;type:numeric(12,2);not null"`
	Active       bool            `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
