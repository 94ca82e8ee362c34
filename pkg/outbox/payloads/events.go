package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
)

// OrderCreatedEvent signals a newly placed order with its frozen totals.
type OrderCreatedEvent struct {
	OrderID       uuid.UUID           `json:"order_id"`
	UserID        uuid.UUID           `json:"user_id"`
	RestaurantID  uuid.UUID           `json:"restaurant_id"`
	OrderMethod   enums.OrderMethod   `json:"order_method"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Total         decimal.Decimal     `json:"total"`
	Discount      decimal.Decimal     `json:"discount"`
	VoucherCode   *string             `json:"voucher_code,omitempty"`
}

// OrderStatusChangedEvent is emitted on every lifecycle transition.
type OrderStatusChangedEvent struct {
	OrderID      uuid.UUID         `json:"order_id"`
	UserID       uuid.UUID         `json:"user_id"`
	RestaurantID uuid.UUID         `json:"restaurant_id"`
	From         enums.OrderStatus `json:"from"`
	To           enums.OrderStatus `json:"to"`
	ChangedAt    time.Time         `json:"changed_at"`
	Reason       string            `json:"reason,omitempty"`
}

// RewardGrantedEvent reports a cash reward credited to the user ledger.
type RewardGrantedEvent struct {
	OrderID   uuid.UUID       `json:"order_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	GrantedAt time.Time       `json:"granted_at"`
}

// RewardRevokedEvent reports a reward reversal after a terminal rejection.
type RewardRevokedEvent struct {
	OrderID   uuid.UUID       `json:"order_id"`
	UserID    uuid.UUID       `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	RevokedAt time.Time       `json:"revoked_at"`
}

// DeliveryRequestedEvent tells the dispatch pipeline to book a courier.
type DeliveryRequestedEvent struct {
	OrderID      uuid.UUID              `json:"order_id"`
	RestaurantID uuid.UUID              `json:"restaurant_id"`
	Platform     enums.DeliveryPlatform `json:"platform"`
	QuoteFee     *decimal.Decimal       `json:"quote_fee,omitempty"`
}

// ReceiptQueuedEvent asks the notification pipeline to send the receipt.
type ReceiptQueuedEvent struct {
	OrderID uuid.UUID       `json:"order_id"`
	UserID  uuid.UUID       `json:"user_id"`
	Total   decimal.Decimal `json:"total"`
}
