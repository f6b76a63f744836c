package auth

import "horizonva/opsdesk/internal/constants"

// PilotClaims is what the middleware hangs on the request context after
// authentication, whatever the credential was.
type PilotClaims interface {
	PilotID() string
	Roles() []constants.Role
	Source() string
	HasRole(role constants.Role) bool
}

type JWTClaims struct {
	PilotUUID string
	RoleList  []constants.Role
}

func (c *JWTClaims) PilotID() string          { return c.PilotUUID }
func (c *JWTClaims) Roles() []constants.Role  { return c.RoleList }
func (c *JWTClaims) Source() string           { return "JWT" }
func (c *JWTClaims) HasRole(role constants.Role) bool { // implements PilotClaims
	return constants.HasRole(c.RoleList, role)
}

type APIKeyClaims struct {
	PilotUUID string
	RoleList  []constants.Role
	Label     string
}

func (c *APIKeyClaims) PilotID() string         { return c.PilotUUID }
func (c *APIKeyClaims) Roles() []constants.Role { return c.RoleList }
func (c *APIKeyClaims) Source() string          { return "API_KEY" }
func (c *APIKeyClaims) HasRole(role constants.Role) bool { // implements PilotClaims
	return constants.HasRole(c.RoleList, role)
}
