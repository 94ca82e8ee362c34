package promotions

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

// NewRepository builds a promotions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindVoucherByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &voucher, nil
}

func (r *repository) FindBogoRules(ctx context.Context, restaurantID uuid.UUID) ([]models.BogoRule, error) {
	var rules []models.BogoRule
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND active = ?", restaurantID, true).
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *repository) FindBxGyRule(ctx context.Context, id uuid.UUID) (*models.BxGyRule, error) {
	var rule models.BxGyRule
	err := r.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *repository) FindSpendRule(ctx context.Context, id uuid.UUID) (*models.SpendRule, error) {
	var rule models.SpendRule
	err := r.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

// FindBestSpendRule picks the highest qualifying threshold at or below the
// subtotal, preferring restaurant-scoped rules over platform-wide ones.
func (r *repository) FindBestSpendRule(ctx context.Context, restaurantID uuid.UUID, subtotal decimal.Decimal) (*models.SpendRule, error) {
	var rule models.SpendRule
	err := r.db.WithContext(ctx).
		Where("active = ? AND threshold <= ?", true, subtotal).
		Where("restaurant_id = ? OR restaurant_id IS NULL", restaurantID).
		Order("restaurant_id NULLS LAST").
		Order("threshold DESC").
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
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
