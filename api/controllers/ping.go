package controllers

import (
	"net/http"

	"github.com/revendedor/painel-backend/api/middleware"
	"github.com/revendedor/painel-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

// PrivatePing echoes the resolved reseller so the dashboard can confirm its session.
func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"scope":       "private",
			"status":      "ok",
			"user_id":     middleware.UserIDFromContext(r.Context()),
			"reseller_id": middleware.ResellerIDFromContext(r.Context()),
			"store_name":  middleware.StoreNameFromContext(r.Context()),
		})
	}
}
