package dashboard

import (
	"net/http"
	"time"

	"github.com/revendedor/painel-backend/api/middleware"
	"github.com/revendedor/painel-backend/api/responses"
	"github.com/revendedor/painel-backend/api/validators"
	internaldashboard "github.com/revendedor/painel-backend/internal/dashboard"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
	"github.com/revendedor/painel-backend/pkg/logger"
)

func Summary(svc internaldashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		resellerID, err := resellerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), resellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// RecentSales lists the latest completed orders (?limit=, default 5).
func RecentSales(svc internaldashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		resellerID, err := resellerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 5, 1, 20)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sales, err := svc.RecentSales(r.Context(), resellerID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sales)
	}
}

// MonthlySales returns twelve month totals for ?year=, defaulting to the
// current year in loc.
func MonthlySales(svc internaldashboard.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	if loc == nil {
		loc = time.UTC
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		resellerID, err := resellerFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		year, err := validators.ParseQueryInt(r, "year", time.Now().In(loc).Year(), 2000, 9999)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		months, err := svc.MonthlySales(r.Context(), resellerID, year)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, months)
	}
}

func resellerFromRequest(r *http.Request) (int64, error) {
	resellerID := middleware.ResellerIDFromContext(r.Context())
	if resellerID <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found")
	}
	return resellerID, nil
}
