package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"horizonva/opsdesk/internal/constants"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTokenTTL = 72 * time.Hour

// SessionClaims is the payload of a signed session token.
type SessionClaims struct {
	PilotID string `json:"pilot_id"`
	Roles   string `json:"roles"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a session JWT for the pilot with HS256.
func GenerateSessionToken(pilotID string, roles []constants.Role, secret string) (string, error) {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}

	claims := SessionClaims{
		PilotID: pilotID,
		Roles:   strings.Join(names, ","),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ParseSessionToken validates a session JWT and returns request claims.
// Expiry is enforced; non-HMAC algorithms are rejected outright.
func ParseSessionToken(tokenString, secret string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return &JWTClaims{
		PilotUUID: claims.PilotID,
		RoleList:  constants.ParseRoles(claims.Roles),
	}, nil
}
