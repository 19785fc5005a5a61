package controllers

import (
	"net/http"

	"github.com/revendedor/painel-backend/api/responses"
	"github.com/revendedor/painel-backend/internal/packages"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
	"github.com/revendedor/painel-backend/pkg/logger"
)

// PackageList returns the catalog a reseller can stock from.
func PackageList(svc packages.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "packages service unavailable"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
