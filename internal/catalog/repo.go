package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindMenuItems(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]models.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND id IN ?", restaurantID, ids).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindLocalDeals(ctx context.Context, menuItemIDs []uuid.UUID) ([]models.LocalDeal, error) {
	if len(menuItemIDs) == 0 {
		return nil, nil
	}
	var deals []models.LocalDeal
	err := r.db.WithContext(ctx).
		Where("menu_item_id IN ? AND active = ?", menuItemIDs, true).
		Find(&deals).Error
	if err != nil {
		return nil, err
	}
	return deals, nil
}
