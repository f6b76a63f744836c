package middleware

import (
	"net/http"

	"horizonva/opsdesk/internal/auth"
	"horizonva/opsdesk/internal/common"
	"horizonva/opsdesk/internal/constants"
)

// RequireDispatcherMiddleware admits dispatchers and admins. Review and
// source management sit behind it.
func RequireDispatcherMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetPilotClaims(r.Context())

			if claims != nil && (claims.HasRole(constants.RoleDispatcher) || claims.HasRole(constants.RoleAdmin)) {
				next.ServeHTTP(w, r)
				return
			}
			common.RespondPermissionDenied(w, "dispatcher")
		})
	}
}
