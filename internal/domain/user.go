package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Length limits shared by user fields.
const (
	MaxNameLength     = 50
	MinPasswordLength = 3
	MaxPasswordLength = 72
	MaxEmailLength    = 255
)

// User represents an account of the task board.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	// Password holds a plaintext password only between decoding a request
	// and hashing it; it is never persisted.
	Password       string    `json:"-"`
	PasswordDigest string    `json:"-"`
	Roles          []Role    `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a User with the given names, email and plaintext password.
// The caller is responsible for hashing the password before storing the user.
func NewUser(firstName, lastName, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     strings.TrimSpace(email),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks the user's fields. A plaintext password, when present,
// must satisfy the length limits; otherwise a digest must already exist.
func (u *User) Validate() error {
	if u.FirstName == "" {
		return validationError(ErrEmptyFirstName)
	}
	if len(u.FirstName) > MaxNameLength {
		return validationError(fmt.Errorf("%w: first_name exceeds %d characters", ErrTooLong, MaxNameLength))
	}
	if u.LastName == "" {
		return validationError(ErrEmptyLastName)
	}
	if len(u.LastName) > MaxNameLength {
		return validationError(fmt.Errorf("%w: last_name exceeds %d characters", ErrTooLong, MaxNameLength))
	}
	if u.Email == "" {
		return validationError(ErrEmptyEmail)
	}
	if len(u.Email) > MaxEmailLength || !validEmail(u.Email) {
		return validationError(ErrInvalidEmail)
	}

	switch {
	case u.Password != "":
		if len(u.Password) < MinPasswordLength {
			return validationError(ErrPasswordTooShort)
		}
		if len(u.Password) > MaxPasswordLength {
			return validationError(ErrPasswordTooLong)
		}
	case u.PasswordDigest == "":
		return validationError(ErrEmptyPassword)
	}

	for _, r := range u.Roles {
		if !r.Name.Valid() {
			return validationError(fmt.Errorf("%w: %q", ErrInvalidRole, r.Name))
		}
	}
	return nil
}

// HasRole reports whether the user holds role r.
func (u *User) HasRole(r RoleName) bool {
	for _, role := range u.Roles {
		if role.Name == r {
			return true
		}
	}
	return false
}

// AddRole attaches role unless the user already holds it.
func (u *User) AddRole(role Role) {
	if u.HasRole(role.Name) {
		return
	}
	u.Roles = append(u.Roles, role)
}

// RoleNames returns the names of the user's roles.
func (u *User) RoleNames() []RoleName {
	names := make([]RoleName, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Principal returns the authorization view of the user.
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Email: u.Email, Roles: u.RoleNames()}
}

// validEmail accepts a bare address (no display name) with a dotted domain.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	domainPart := email[at+1:]
	dot := strings.Index(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}
