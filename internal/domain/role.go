package domain

import (
	"fmt"
	"strings"
)

// RoleName identifies one of the fixed authorization roles.
type RoleName string

const (
	// RoleAdmin may perform every operation.
	RoleAdmin RoleName = "ADMIN"

	// RoleUser is granted to every new account.
	RoleUser RoleName = "USER"
)

// DefaultRole is assigned to users created through the API.
const DefaultRole = RoleUser

// AllRoles lists every role the system knows about, in seeding order.
var AllRoles = []RoleName{RoleAdmin, RoleUser}

// Valid reports whether r is a known role.
func (r RoleName) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRoleName converts s into a RoleName, ignoring case and surrounding space.
func ParseRoleName(s string) (RoleName, error) {
	r := RoleName(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// Role is a persisted role row.
type Role struct {
	ID   int64    `json:"id"`
	Name RoleName `json:"role_name"`
}
