package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)

// Account is a locally managed login used by the symmetric-jwt mode.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity converts the account into a request identity.
func (a *Account) Identity() Identity {
	roles := a.Roles
	if len(roles) == 0 {
		roles = []string{RoleUser}
	}
	return NewIdentity(a.Email, a.Name, roles)
}
