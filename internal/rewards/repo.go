package rewards

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reward ledger repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, entry *models.UserReward) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindEntry(ctx context.Context, orderID uuid.UUID, kind enums.RewardEntryKind) (*models.UserReward, error) {
	var entry models.UserReward
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND kind = ?", orderID, kind).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.UserReward{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ?", userID).
		Scan(&balance).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !balance.Valid {
		return decimal.Zero, nil
	}
	return balance.Decimal, nil
}
