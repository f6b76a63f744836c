package middleware

import (
	"net/http"

	"horizonva/opsdesk/internal/auth"
	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/constants"
)

func RequireAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetPilotClaims(r.Context())

			if claims == nil || !claims.HasRole(constants.RoleAdmin) {
				common.RespondPermissionDenied(w, "admin")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
