package inventory

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/revendedor/painel-backend/api/middleware"
	"github.com/revendedor/painel-backend/api/responses"
	"github.com/revendedor/painel-backend/api/validators"
	internalinventory "github.com/revendedor/painel-backend/internal/inventory"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
	"github.com/revendedor/painel-backend/pkg/logger"
)

type addRequest struct {
	PackageID int64           `json:"package_id" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"gte=0"`
	Price     decimal.Decimal `json:"price"`
}

type stockRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

type priceRequest struct {
	Price *decimal.Decimal `json:"price" validate:"required"`
}

// statusRequest sets a stored label; null clears it.
type statusRequest struct {
	Status *string `json:"status" validate:"omitempty,notblank,max=64"`
}

// List returns the reseller's stock, optionally filtered by ?q=.
func List(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		resellerID, err := resellerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		search := validators.SanitizeString(r.URL.Query().Get("q"), 100)
		items, err := svc.List(r.Context(), resellerID, search)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// Add stocks a catalog package.
func Add(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		resellerID, err := resellerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Add(r.Context(), internalinventory.AddInput{
			ResellerID: resellerID,
			PackageID:  payload.PackageID,
			Quantity:   payload.Quantity,
			Price:      payload.Price,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// AdjustStock overwrites the quantity on hand.
func AdjustStock(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		resellerID, itemID, err := itemRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload stockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.AdjustStock(r.Context(), resellerID, itemID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func UpdatePrice(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		resellerID, itemID, err := itemRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload priceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdatePrice(r.Context(), resellerID, itemID, *payload.Price)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// OverrideStatus pins a display label on the item, or clears it with null.
func OverrideStatus(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		resellerID, itemID, err := itemRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload statusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Status != nil {
			trimmed := strings.TrimSpace(*payload.Status)
			payload.Status = &trimmed
		}

		item, err := svc.OverrideStatus(r.Context(), resellerID, itemID, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func Delete(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		resellerID, itemID, err := itemRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), resellerID, itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func resellerFromRequest(r *http.Request) (int64, error) {
	resellerID := middleware.ResellerIDFromContext(r.Context())
	if resellerID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found")
	}
	return resellerID, nil
}

func itemRequest(r *http.Request) (int64, int64, error) {
	resellerID, err := resellerFromRequest(r)
	if err != nil {
		return 0, 0, err
	}
	itemID, err := validators.ParsePathID(r, "itemId")
	if err != nil {
		return 0, 0, err
	}
	return resellerID, itemID, nil
}
