package fees

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
)

// RuleRepository loads delivery fee rules and the user's counted order total.
type RuleRepository interface {
	FindRestaurantRule(ctx context.Context, restaurantID uuid.UUID) (*models.DeliveryFeeRule, error)
	FindGlobalRule(ctx context.Context) (*models.DeliveryFeeRule, error)
	CountUserOrders(ctx context.Context, userID uuid.UUID) (int64, error)
}

// MarkupResolver picks the tiered platform markup for a user and restaurant.
type MarkupResolver interface {
	ResolveMarkup(ctx context.Context, userID, restaurantID uuid.UUID) (decimal.Decimal, error)
}

type markupResolver struct {
	repo RuleRepository
}

// NewMarkupResolver builds the tiered delivery markup resolver.
func NewMarkupResolver(repo RuleRepository) (MarkupResolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("delivery fee rule repository required")
	}
	return &markupResolver{repo: repo}, nil
}

// ResolveMarkup applies the first/second/third+ order schedule. A
// restaurant-scoped rule wins over the global one; no rule at all means no
// markup.
func (m *markupResolver) ResolveMarkup(ctx context.Context, userID, restaurantID uuid.UUID) (decimal.Decimal, error) {
	rule, err := m.repo.FindRestaurantRule(ctx, restaurantID)
	if err != nil {
		return decimal.Zero, err
	}
	if rule == nil {
		rule, err = m.repo.FindGlobalRule(ctx)
		if err != nil {
			return decimal.Zero, err
		}
	}
	if rule == nil {
		return decimal.Zero, nil
	}

	count, err := m.repo.CountUserOrders(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	switch count {
	case 0:
		return rule.FirstOrderFee, nil
	case 1:
		return rule.SecondOrderFee, nil
	default:
		return rule.ThirdOnwardsFee, nil
	}
}

type ruleRepository struct {
	db *gorm.DB
}

// NewRuleRepository builds a delivery fee rule repository bound to the provided DB.
func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) FindRestaurantRule(ctx context.Context, restaurantID uuid.UUID) (*models.DeliveryFeeRule, error) {
	var rule models.DeliveryFeeRule
	err := r.db.WithContext(ctx).
		Where("active = ? AND ? = ANY(restaurant_ids)", true, restaurantID.String()).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *ruleRepository) FindGlobalRule(ctx context.Context) (*models.DeliveryFeeRule, error) {
	var rule models.DeliveryFeeRule
	err := r.db.WithContext(ctx).
		Where("active = ? AND (restaurant_ids IS NULL OR cardinality(restaurant_ids) = 0)", true).
		First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rule, nil
}

func (r *ruleRepository) CountUserOrders(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ? AND status IN ?", userID, []enums.OrderStatus{enums.OrderStatusAccepted, enums.OrderStatusCompleted}).
		Count(&count).Error
	return count, err
}
