package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/remotekitchen/chatchef-backend-new/api/responses"
	"github.com/remotekitchen/chatchef-backend-new/internal/rewards"
	pkgerrors "github.com/remotekitchen/chatchef-backend-new/pkg/errors"
	"github.com/remotekitchen/chatchef-backend-new/pkg/logger"
)

type rewardBalanceResponse struct {
	UserID  uuid.UUID       `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}

// RewardBalance returns the user's current redeemable reward balance.
func RewardBalance(gate rewards.Gate, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if gate == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "reward gate unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := uuid.Parse(chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "user id must be a valid uuid"))
			return
		}

		balance, err := gate.Balance(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load reward balance"))
			return
		}
		responses.WriteSuccess(w, rewardBalanceResponse{UserID: userID, Balance: balance})
	}
}
