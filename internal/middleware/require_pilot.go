package middleware

import (
	"net/http"

	"horizonva/opsdesk/internal/auth"
	"horizonva/opsdesk/internal/common"
)

// RequirePilotMiddleware admits only credentials bound to a pilot record.
// Service keys without a pilot binding cannot start duty or file reports.
func RequirePilotMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetPilotClaims(r.Context())

			if claims == nil || claims.PilotID() == "" {
				common.RespondPermissionDenied(w, "pilot")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
