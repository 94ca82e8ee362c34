package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// DeliveryFeeRule tiers the customer-facing delivery fee by how many counted
// orders the user already placed. An empty RestaurantIDs list makes the rule
// global; restaurant-scoped rules take precedence.
type DeliveryFeeRule struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RestaurantIDs   pq.StringArray  `gorm:"column:restaurant_ids;type:text[];default:ARRAY[]::text[]"`
	FirstOrderFee   decimal.Decimal `gorm:"column:first_order_fee;type:numeric(12,2);not null;default:0"`
	SecondOrderFee  decimal.Decimal `gorm:"column:second_order_fee;type:numeric(12,2);not null;default:0"`
	ThirdOnwardsFee decimal.Decimal `gorm:"column:third_onwards_fee;type:numeric(12,2);not null;default:0"`
	Active          bool            `gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
