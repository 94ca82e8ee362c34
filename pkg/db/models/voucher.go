package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Voucher is a redeemable discount code. A nil RestaurantID marks a
// platform-wide code; IsHTVoucher routes its cost to the platform ledger
// during invoicing.
type Voucher struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code           string           `gorm:"column:code;not null;uniqueIndex"`
	RestaurantID   *uuid.UUID       `gorm:"column:restaurant_id;type:uuid;index"`
	Amount         decimal.Decimal  `gorm:"column:amount;type:numeric(12,2);not null"`
	IsPercentage   bool             `gorm:"column:is_percentage;not null;default:false"`
	MaxRedeemValue *decimal.Decimal `gorm:"column:max_redeem_value;type:numeric(12,2)"`
	MinSpend       decimal.Decimal  `gorm:"column:min_spend;type:numeric(12,2);not null;default:0"`
	IsOneTimeUse   bool             `gorm:"column:is_one_time_use;not null;default:false"`
	MaxUsesPerUser int              `gorm:"column:max_uses_per_user;not null;default:0"`
	IsHTVoucher    bool             `gorm:"column:is_ht_voucher;not null;default:false"`
	Platforms      pq.StringArray   `gorm:"column:platforms;type:text[];default:ARRAY[]::text[]"`
	StartsAt       *time.Time       `gorm:"column:starts_at"`
	ExpiresAt      *time.Time       `gorm:"column:expires_at"`
	Active         bool             `gorm:"column:active;not null;default:true"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
