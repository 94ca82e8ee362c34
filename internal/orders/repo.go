package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateStatus(ctx context.Context, order *models.Order) error {
	updates := map[string]any{
		"status":     order.Status,
		"updated_at": time.Now(),
	}
	switch order.Status {
	case enums.OrderStatusAccepted:
		updates["accepted_at"] = order.AcceptedAt
	case enums.OrderStatusCompleted:
		updates["completed_at"] = order.CompletedAt
	case enums.OrderStatusRejected, enums.OrderStatusCancelled:
		updates["cancelled_at"] = order.CancelledAt
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(updates).Error
}

// LockVoucher takes a row-level lock on the voucher for the duration of the
// surrounding transaction.
func (r *repository) LockVoucher(ctx context.Context, voucherID uuid.UUID) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", voucherID).
		First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

func (r *repository) CountOrdersWithVoucher(ctx context.Context, voucherID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("voucher_id = ? AND status <> ?", voucherID, enums.OrderStatusCancelled).
		Count(&count).Error
	return count, err
}

func (r *repository) CountUserOrdersWithVoucher(ctx context.Context, voucherID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("voucher_id = ? AND user_id = ? AND status <> ?", voucherID, userID, enums.OrderStatusCancelled).
		Count(&count).Error
	return count, err
}
