package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BogoRule overrides the buy-one-get-one inflate percent for a single menu
// item. Items flagged IsBogo without a rule fall back to the default percent.
type BogoRule struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID   uuid.UUID       `gorm:"column:restaurant_id;type:uuid;not null;index"`
	MenuItemID     uuid.UUID       `gorm:"column:menu_item_id;type:uuid;not null;uniqueIndex"`
	InflatePercent decimal.Decimal `gorm:"column:inflate_percent;type:numeric(6,2);not null"`
	Active         bool            `gorm:"column:active;not null;default:true"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
