package constants

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Role mirrors the Postgres ENUM 'crew_role'
type Role string

const (
	RolePilot      Role = "pilot"
	RoleDispatcher Role = "dispatcher"
	RoleAdmin      Role = "admin"
)

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }

// ParseRoles splits a comma-separated role list as stored on the pilot row.
func ParseRoles(csv string) []Role {
	parts := strings.Split(csv, ",")
	roles := make([]Role, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		roles = append(roles, Role(p))
	}
	return roles
}

// HasRole reports whether the list contains the wanted role.
func HasRole(roles []Role, want Role) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}
