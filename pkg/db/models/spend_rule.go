package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SpendRule is a spend-X-save-Y promotion. A nil RestaurantID applies
// platform-wide; the highest qualifying threshold wins.
type SpendRule struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantID *uuid.UUID       `gorm:"column:restaurant_id;type:uuid;index"`
	Threshold    decimal.Decimal  `gorm:"column:threshold;type:numeric(12,2);not null"`
	Amount       decimal.Decimal  `gorm:"column:amount;type:numeric(12,2);not null"`
	IsPercentage bool             `gorm:"column:is_percentage;not null;default:false"`
	MaxDiscount  *decimal.Decimal `gorm:"column:max_discount;type:numeric(12,2)"`
	Active       bool             `gorm:"column:active;not null;default:true"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
