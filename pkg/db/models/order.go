package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
	"github.com/remotekitchen/chatchef-backend-new/pkg/types"
)

// Order is the placed order with its frozen item snapshot and cost breakdown.
// The three discount split columns stay zero until the invoicing pass runs on
// a terminal-accepted order.
type Order struct {
	ID                  uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index"`
	RestaurantID        uuid.UUID              `gorm:"column:restaurant_id;type:uuid;not null;index"`
	Status              enums.OrderStatus      `gorm:"column:status;type:text;not null;default:'pending'"`
	OrderMethod         enums.OrderMethod      `gorm:"column:order_method;type:text;not null"`
	PaymentMethod       enums.PaymentMethod    `gorm:"column:payment_method;type:text;not null"`
	Platform            enums.DeliveryPlatform `gorm:"column:platform;type:text;not null;default:'na'"`
	VoucherID           *uuid.UUID             `gorm:"column:voucher_id;type:uuid;index"`
	VoucherCode         *string                `gorm:"column:voucher_code"`
	Items               types.OrderItemMetas   `gorm:"column:items;type:jsonb;not null"`
	Costs               types.CostBreakdown    `gorm:"column:costs;type:jsonb;not null"`
	Total               decimal.Decimal        `gorm:"column:total;type:numeric(12,2);not null"`
	RewardRedeemed      decimal.Decimal        `gorm:"column:reward_redeemed;type:numeric(12,2);not null;default:0"`
	TipsForRestaurant   decimal.Decimal        `gorm:"column:tips_for_restaurant;type:numeric(12,2);not null;default:0"`
	DeliveryQuoteFee    *decimal.Decimal       `gorm:"column:delivery_quote_fee;type:numeric(12,2)"`
	RestaurantDiscount  decimal.Decimal        `gorm:"column:restaurant_discount;type:numeric(12,2);not null;default:0"`
	PlatformDiscount    decimal.Decimal        `gorm:"column:platform_discount;type:numeric(12,2);not null;default:0"`
	HungrytigerDiscount decimal.Decimal        `gorm:"column:hungrytiger_discount;type:numeric(12,2);not null;default:0"`
	CommissionAmount    decimal.Decimal        `gorm:"column:commission_amount;type:numeric(12,2);not null;default:0"`
	AcceptedAt          *time.Time             `gorm:"column:accepted_at"`
	CompletedAt         *time.Time             `gorm:"column:completed_at"`
	CancelledAt         *time.Time             `gorm:"column:cancelled_at"`
	CreatedAt           time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
