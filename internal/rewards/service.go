package rewards

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/remotekitchen/chatchef-backend-new/pkg/config"
	dbpkg "github.com/remotekitchen/chatchef-backend-new/pkg/db"
	"github.com/remotekitchen/chatchef-backend-new/pkg/db/models"
	"github.com/remotekitchen/chatchef-backend-new/pkg/enums"
	"github.com/remotekitchen/chatchef-backend-new/pkg/logger"
	"github.com/remotekitchen/chatchef-backend-new/pkg/outbox"
	"github.com/remotekitchen/chatchef-backend-new/pkg/outbox/payloads"
	"github.com/remotekitchen/chatchef-backend-new/pkg/redis"
	"github.com/remotekitchen/chatchef-backend-new/pkg/types"
)

const grantScope = "reward:grant"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gate struct {
	repo   Repository
	tx     txRunner
	events *outbox.Service
	idem   redis.IdempotencyStore
	cfg    config.RewardsConfig
	logg   *logger.Logger
}

// NewGate builds the reward gate with the required collaborators.
func NewGate(repo Repository, tx txRunner, events *outbox.Service, idem redis.IdempotencyStore, cfg config.RewardsConfig, logg *logger.Logger) (Gate, error) {
	if repo == nil {
		return nil, fmt.Errorf("reward repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	if idem == nil {
		return nil, fmt.Errorf("idempotency store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &gate{repo: repo, tx: tx, events: events, idem: idem, cfg: cfg, logg: logg}, nil
}

func (g *gate) Balance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	return g.repo.Balance(ctx, userID)
}

// grantAmount is the reward earned by an order: the configured rate applied to
// the post-discount order value, rounded to cents.
func (g *gate) grantAmount(order *models.Order) decimal.Decimal {
	rate := decimal.NewFromFloat(g.cfg.RatePercent)
	base := order.Costs.OrderValue.Sub(order.Costs.Discount)
	return types.Round2(base.Mul(rate).Div(decimal.NewFromInt(100)))
}

func (g *gate) GrantForOrder(ctx context.Context, order *models.Order) {
	logCtx := g.logg.WithOrderID(g.logg.WithUserID(ctx, order.UserID.String()), order.ID.String())

	amount := g.grantAmount(order)
	if !amount.IsPositive() {
		return
	}

	key := g.idem.IdempotencyKey(grantScope, order.ID.String())
	acquired, err := g.idem.SetNX(ctx, key, "1", g.cfg.IdempotencyTTL)
	if err != nil {
		// Redis being down must not block the grant; the ledger's unique
		// index still prevents duplicates.
		g.logg.Warn(logCtx, "reward grant idempotency check unavailable")
	} else if !acquired {
		return
	}

	if err := g.grantOnce(ctx, order, amount); err != nil {
		g.logg.Warn(logCtx, "reward grant failed, retrying once")
		if err = g.grantOnce(ctx, order, amount); err != nil {
			if delErr := g.idem.Del(ctx, key); delErr != nil {
				g.logg.Error(logCtx, "releasing reward grant idempotency key", delErr)
			}
			g.logg.Error(logCtx, "reward grant failed", err)
		}
	}
}

func (g *gate) grantOnce(ctx context.Context, order *models.Order, amount decimal.Decimal) error {
	err := g.tx.WithTx(ctx, func(tx *gorm.DB) error {
		entry := &models.UserReward{
			UserID:  order.UserID,
			OrderID: order.ID,
			Kind:    enums.RewardEntryKindGrant,
			Amount:  amount,
		}
		if err := g.repo.WithTx(tx).Insert(ctx, entry); err != nil {
			return err
		}
		return g.events.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRewardGranted,
			AggregateType: enums.AggregateReward,
			AggregateID:   order.ID,
			Data: payloads.RewardGrantedEvent{
				OrderID:   order.ID,
				UserID:    order.UserID,
				Amount:    amount,
				GrantedAt: time.Now(),
			},
			Version: 1,
		})
	})
	if dbpkg.IsUniqueViolation(err, "idx_user_rewards_order_kind") {
		return nil
	}
	return err
}

func (g *gate) RedeemInTx(ctx context.Context, tx *gorm.DB, userID, orderID uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("redemption amount must be positive")
	}
	return g.repo.WithTx(tx).Insert(ctx, &models.UserReward{
		UserID:  userID,
		OrderID: orderID,
		Kind:    enums.RewardEntryKindRedemption,
		Amount:  amount.Neg(),
	})
}

func (g *gate) RevokeForOrder(ctx context.Context, order *models.Order) {
	logCtx := g.logg.WithOrderID(g.logg.WithUserID(ctx, order.UserID.String()), order.ID.String())

	grant, err := g.repo.FindEntry(ctx, order.ID, enums.RewardEntryKindGrant)
	if err != nil {
		g.logg.Error(logCtx, "loading reward grant for reversal", err)
		return
	}
	if grant == nil {
		return
	}

	err = g.tx.WithTx(ctx, func(tx *gorm.DB) error {
		entry := &models.UserReward{
			UserID:  order.UserID,
			OrderID: order.ID,
			Kind:    enums.RewardEntryKindReversal,
			Amount:  grant.Amount.Neg(),
		}
		if err := g.repo.WithTx(tx).Insert(ctx, entry); err != nil {
			return err
		}
		return g.events.EmitIfNotExists(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventRewardRevoked,
			AggregateType: enums.AggregateReward,
			AggregateID:   order.ID,
			Data: payloads.RewardRevokedEvent{
				OrderID:   order.ID,
				UserID:    order.UserID,
				Amount:    grant.Amount,
				RevokedAt: time.Now(),
			},
			Version: 1,
		})
	})
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "idx_user_rewards_order_kind") {
			return
		}
		g.logg.Error(logCtx, "reward reversal failed", err)
		return
	}

	key := g.idem.IdempotencyKey(grantScope, order.ID.String())
	if err := g.idem.Del(ctx, key); err != nil {
		g.logg.Warn(logCtx, "releasing reward grant idempotency key after reversal")
	}
}
