package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/remotekitchen/chatchef-backend-new/pkg/errors"
)

type service struct {
	repo Repository
}

// NewService builds the catalog resolver.
func NewService(repo Repository) (Resolver, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// ResolveLines fetches each requested item and rejects unknown or unavailable
// ones. Zero-quantity entries are dropped before resolution.
func (s *service) ResolveLines(ctx context.Context, restaurantID uuid.UUID, items []ItemQuantity) ([]ResolvedLine, error) {
	filtered := make([]ItemQuantity, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		filtered = append(filtered, item)
	}
	if len(filtered) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no purchasable items")
	}

	ids := make([]uuid.UUID, 0, len(filtered))
	for _, item := range filtered {
		ids = append(ids, item.MenuItemID)
	}

	menuItems, err := s.repo.FindMenuItems(ctx, restaurantID, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu items")
	}
	byID := make(map[uuid.UUID]int, len(menuItems))
	for i, item := range menuItems {
		byID[item.ID] = i
	}

	deals, err := s.repo.FindLocalDeals(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load local deals")
	}
	dealByItem := make(map[uuid.UUID]int, len(deals))
	for i, deal := range deals {
		dealByItem[deal.MenuItemID] = i
	}

	lines := make([]ResolvedLine, 0, len(filtered))
	for _, req := range filtered {
		idx, ok := byID[req.MenuItemID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item not found for restaurant").
				WithDetails(map[string]string{"menu_item_id": req.MenuItemID.String()})
		}
		item := menuItems[idx]
		if !item.Available {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "menu item is unavailable").
				WithDetails(map[string]string{"menu_item_id": item.ID.String()})
		}
		line := ResolvedLine{Item: item, Quantity: req.Quantity}
		if di, ok := dealByItem[item.ID]; ok {
			deal := deals[di]
			line.Deal = &deal
		}
		lines = append(lines, line)
	}
	return lines, nil
}
