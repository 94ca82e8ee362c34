package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
)

// UserReward is an immutable entry in the per-user reward ledger. Grants carry
// positive amounts, redemptions and reversals negative ones; the balance is
// the sum over the user's rows. The (order, kind) pair is unique so repeated
// lifecycle events cannot double-grant.
type UserReward struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	OrderID   uuid.UUID             `gorm:"column:order_id;type:uuid;not null;uniqueIndex:idx_user_rewards_order_kind"`
	Kind      enums.RewardEntryKind `gorm:"column:kind;type:text;not null;uniqueIndex:idx_user_rewards_order_kind"`
	Amount    decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}
