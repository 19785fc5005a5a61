package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/revendedor/painel-backend/api/middleware"
	"github.com/revendedor/painel-backend/api/responses"
	"github.com/revendedor/painel-backend/api/validators"
	"github.com/revendedor/painel-backend/internal/resellers"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
	"github.com/revendedor/painel-backend/pkg/logger"
)

type freightRequest struct {
	Fee *decimal.Decimal `json:"fee" validate:"required"`
}

func FreightGet(svc resellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reseller service unavailable"))
			return
		}
		resellerID := middleware.ResellerIDFromContext(r.Context())
		if resellerID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found"))
			return
		}

		freight, err := svc.GetFreight(r.Context(), resellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, freight)
	}
}

// FreightUpdate sets the flat delivery fee charged on new orders.
func FreightUpdate(svc resellers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reseller service unavailable"))
			return
		}
		resellerID := middleware.ResellerIDFromContext(r.Context())
		if resellerID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found"))
			return
		}

		var payload freightRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		freight, err := svc.UpdateFreight(r.Context(), resellerID, *payload.Fee)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, freight)
	}
}
