package orders

import (
	"net/http"
	"strings"
	"time"

	"github.com/revendedor/painel-backend/api/middleware"
	"github.com/revendedor/painel-backend/api/responses"
	"github.com/revendedor/painel-backend/api/validators"
	internalorders "github.com/revendedor/painel-backend/internal/orders"
	"github.com/revendedor/painel-backend/pkg/enums"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
	"github.com/revendedor/painel-backend/pkg/logger"
	"github.com/revendedor/painel-backend/pkg/pagination"
)

const (
	dateLayout     = "2006-01-02"
	maxReasonRunes = 500
)

type acceptRequest struct {
	EstimatedDeliveryDate string `json:"estimated_delivery_date" validate:"required,datetime=2006-01-02"`
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

type advanceRequest struct {
	Status string `json:"status" validate:"required,notblank"`
}

// action is one order endpoint once the session has been resolved.
type action func(r *http.Request, actor internalorders.Actor) (any, error)

// handle resolves the reseller session, runs act and writes the envelope.
func handle(svc internalorders.Service, logg *logger.Logger, act action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		actor := internalorders.Actor{
			UserID:     middleware.UserIDFromContext(r.Context()),
			ResellerID: middleware.ResellerIDFromContext(r.Context()),
		}
		if actor.UserID <= 0 || actor.ResellerID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found"))
			return
		}
		result, err := act(r, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// handleOrder is handle for routes under /orders/{orderId}.
func handleOrder(svc internalorders.Service, logg *logger.Logger, act func(r *http.Request, actor internalorders.Actor, orderID int64) (any, error)) http.HandlerFunc {
	return handle(svc, logg, func(r *http.Request, actor internalorders.Actor) (any, error) {
		orderID, err := validators.ParsePathID(r, "orderId")
		if err != nil {
			return nil, err
		}
		return act(r, actor, orderID)
	})
}

// List serves the pending, in-progress, finished and cancelled order views.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return handle(svc, logg, func(r *http.Request, actor internalorders.Actor) (any, error) {
		query := r.URL.Query()
		view, err := enums.ParseOrderView(query.Get("view"))
		if err != nil {
			return nil, fieldError(err, "invalid view", "view")
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			return nil, err
		}
		return svc.List(r.Context(), internalorders.ListParams{
			ResellerID: actor.ResellerID,
			View:       view,
			Cursor:     strings.TrimSpace(query.Get("cursor")),
			Limit:      limit,
		})
	})
}

// Detail returns one of the reseller's orders with its next transitions.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return handleOrder(svc, logg, func(r *http.Request, actor internalorders.Actor, orderID int64) (any, error) {
		return svc.Detail(r.Context(), actor, orderID)
	})
}

// StockCheck reports whether current inventory covers the order.
func StockCheck(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return handleOrder(svc, logg, func(r *http.Request, actor internalorders.Actor, orderID int64) (any, error) {
		return svc.CheckStock(r.Context(), actor, orderID)
	})
}

// Accept reserves stock and schedules delivery. The estimated date is read
// as a calendar day in loc.
func Accept(svc internalorders.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	if loc == nil {
		loc = time.UTC
	}
	return handleOrder(svc, logg, func(r *http.Request, actor internalorders.Actor, orderID int64) (any, error) {
		var payload acceptRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		date, err := time.ParseInLocation(dateLayout, strings.TrimSpace(payload.EstimatedDeliveryDate), loc)
		if err != nil {
			return nil, fieldError(err, "invalid estimated delivery date", "estimated_delivery_date")
		}
		return svc.Accept(r.Context(), internalorders.AcceptInput{Actor: actor, OrderID: orderID, EstimatedDate: date})
	})
}

// Reject cancels a pending order; the body and its reason are optional.
func Reject(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return handleOrder(svc, logg, func(r *http.Request, actor internalorders.Actor, orderID int64) (any, error) {
		var payload rejectRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.Reject(r.Context(), internalorders.RejectInput{
			Actor:   actor,
			OrderID: orderID,
			Reason:  validators.SanitizeString(payload.Reason, maxReasonRunes),
		})
	})
}

// Advance moves an accepted order to the requested fulfillment status.
func Advance(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return handleOrder(svc, logg, func(r *http.Request, actor internalorders.Actor, orderID int64) (any, error) {
		var payload advanceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		target, err := enums.ParseFulfillmentStatus(payload.Status)
		if err != nil {
			return nil, fieldError(err, "unknown status", "status")
		}
		return svc.Advance(r.Context(), internalorders.AdvanceInput{Actor: actor, OrderID: orderID, Target: target})
	})
}

func fieldError(err error, message, field string) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message).WithDetails(map[string]string{"field": field})
}
