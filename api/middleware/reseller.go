package middleware

import (
	"context"
	"net/http"

	"github.com/revendedor/painel-backend/api/responses"
	"github.com/revendedor/painel-backend/internal/resellers"
	pkgerrors "github.com/revendedor/painel-backend/pkg/errors"
	"github.com/revendedor/painel-backend/pkg/logger"
)

// ResellerResolver maps an authenticated user to the reseller account it runs.
type ResellerResolver interface {
	Resolve(ctx context.Context, userID int64) (*resellers.Identity, error)
}

// ResellerContext resolves the reseller behind the signed-in user. Requests
// from users without a reseller account stop here with UNAUTHORIZED.
func ResellerContext(resolver ResellerResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			if userID <= 0 || resolver == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user/session not found"))
				return
			}

			identity, err := resolver.Resolve(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithResellerID(r.Context(), identity.ResellerID)
			ctx = context.WithValue(ctx, ctxStoreName, identity.StoreName)
			if logg != nil {
				ctx = logg.WithResellerID(ctx, identity.ResellerID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
