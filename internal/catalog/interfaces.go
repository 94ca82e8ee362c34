package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
)

// ItemQuantity is a requested order line before resolution.
type ItemQuantity struct {
	MenuItemID uuid.UUID
	Quantity   int
}

// ResolvedLine pairs a requested quantity with the live menu item and, when
// present, its active local deal.
type ResolvedLine struct {
	Item     models.MenuItem
	Quantity int
	Deal     *models.LocalDeal
}

// Resolver loads menu items and their deals for a cost calculation.
type Resolver interface {
	ResolveLines(ctx context.Context, restaurantID uuid.UUID, items []ItemQuantity) ([]ResolvedLine, error)
}

// Repository defines persistence operations for catalog tables.
type Repository interface {
	FindMenuItems(ctx context.Context, restaurantID uuid.UUID, ids []uuid.UUID) ([]models.MenuItem, error)
	FindLocalDeals(ctx context.Context, menuItemIDs []uuid.UUID) ([]models.LocalDeal, error)
}
