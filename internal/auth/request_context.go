package auth

import (
	"context"
)

type contextKey string

var pilotClaimsKey contextKey = "pilot_claims"

func SetPilotClaims(ctx context.Context, claims PilotClaims) context.Context {
	return context.WithValue(ctx, pilotClaimsKey, claims)
}

func GetPilotClaims(ctx context.Context) PilotClaims {
	val := ctx.Value(pilotClaimsKey)
	if claims, ok := val.(PilotClaims); ok {
		return claims
	}
	return nil
}
