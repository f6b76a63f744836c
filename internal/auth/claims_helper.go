package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"horizonva/opsdesk/internal/constants"
	"horizonva/opsdesk/internal/models/entities"
)

// HashAPIKey derives the storage and lookup ID for a raw API key. Only
// the digest ever touches the database.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// MakeClaimsFromKey converts a looked-up key row into request claims.
// Service keys without a pilot binding get an empty pilot ID; role checks
// still apply.
func MakeClaimsFromKey(key *entities.ApiKey) *APIKeyClaims {
	claims := &APIKeyClaims{
		RoleList: constants.ParseRoles(key.Roles),
		Label:    key.Label,
	}
	if key.PilotID != nil {
		claims.PilotUUID = *key.PilotID
	}
	return claims
}
