package models

import (
	"time"

	"github.com/google/uuid"
)

// BxGyRule grants GetQuantity units of the get-item free for every
// BuyQuantity units of the buy-item in the order.
type BxGyRule struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID  uuid.UUID `gorm:"column:restaurant_id;type:uuid;not null;index"`
	BuyMenuItemID uuid.UUID `gorm:"column:buy_menu_item_id;type:uuid;not null"`
	BuyQuantity   int       `gorm:"column:buy_quantity;not null"`
	GetMenuItemID uuid.UUID `gorm:"column:get_menu_item_id;type:uuid;not null"`
	GetQuantity   int       `gorm:"column:get_quantity;not null"`
	Active        bool      `gorm:"column:active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
