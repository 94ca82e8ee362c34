package invoicing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	pkgerrors "github.com/remotekitchen/chatchef-backend-new/pkg/errors"
	"github.com/remotekitchen/chatchef-backend-new/pkg/logger"
)

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the invoicing split service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoicing repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// SplitOrder computes and persists the discount split for a counted order.
// Pending orders are rejected since the split feeds financial reporting. A
// restaurant without contract terms bears nothing beyond the defaults, every
// percentage treated as zero.
func (s *service) SplitOrder(ctx context.Context, orderID uuid.UUID) (*DiscountSplit, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order for split")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if !order.Status.IsCounted() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "discount split requires a counted order").
			WithDetails(map[string]string{"status": order.Status.String()})
	}

	contract, err := s.repo.FindContract(ctx, order.RestaurantID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load restaurant contract")
	}
	terms := models.RestaurantContract{}
	if contract != nil {
		terms = *contract
	}

	split := Split(order.Costs, order.Items, order.HungrytigerDiscount, terms)
	if err := s.repo.SaveSplit(ctx, order.ID, split); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist discount split")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":            order.ID.String(),
		"restaurant_discount": split.RestaurantDiscount,
		"platform_discount":   split.PlatformDiscount,
	})
	s.logg.Info(logCtx, "discount split persisted")
	return &split, nil
}
