package domain

// Principal is the authenticated caller of an operation.
// It is built from a validated token or from basic-auth credentials.
type Principal struct {
	UserID int64
	Email  string
	Roles  []RoleName
}

// HasRole reports whether the principal holds role r.
func (p Principal) HasRole(r RoleName) bool {
	for _, have := range p.Roles {
		if have == r {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal holds at least one of roles.
func (p Principal) HasAnyRole(roles ...RoleName) bool {
	for _, r := range roles {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the principal holds the ADMIN role.
func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

// Is reports whether the principal is the user with the given id.
func (p Principal) Is(userID int64) bool {
	return p.UserID != 0 && p.UserID == userID
}
