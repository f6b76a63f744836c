package middleware

import (
	"net/http"
	"strings"

	"horizonva/opsdesk/internal/auth"
	"horizonva/opsdesk/internal/db/repositories"
)

// AuthMiddleware authenticates every request from either a session JWT
// (Authorization: Bearer) or an issued API key (X-API-Key). Whichever
// succeeds, the resulting claims ride the request context.
func AuthMiddleware(keysRepo *repositories.KeysRepo, jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			authHeader := r.Header.Get("Authorization")
			apiKey := r.Header.Get("X-API-Key")

			var claims auth.PilotClaims

			switch {
			case strings.HasPrefix(authHeader, "Bearer "):
				token := strings.TrimPrefix(authHeader, "Bearer ")

				parsed, err := auth.ParseSessionToken(token, jwtSecret)
				if err != nil {
					http.Error(w, "Unauthorized. Invalid token", http.StatusUnauthorized)
					return
				}
				claims = parsed

			case apiKey != "":
				keyRes, err := keysRepo.GetStatus(r.Context(), auth.HashAPIKey(apiKey))
				if err != nil {
					http.Error(w, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
					return
				}

				if !keyRes.Status {
					http.Error(w, "Unauthorized. Inactive API Key", http.StatusUnauthorized)
					return
				}

				claims = auth.MakeClaimsFromKey(keyRes)

			default:
				http.Error(w, "Unauthorized. Missing credentials", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetPilotClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
