package ports

import (
	"context"

	"github.com/workspacehub/workspace-api/internal/core/domain"
)

// CreateAccountInput carries the fields for a new local account.
type CreateAccountInput struct {
	Email    string
	Name     string
	Password string
	Roles    []string
}

// IssuedToken is the bearer credential handed back by Login.
type IssuedToken struct {
	AccessToken string
	TokenType   string
	Identity    domain.Identity
}

// AuthService issues bearer tokens. It exists only in modes where this
// server is the token issuer.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*IssuedToken, error)
	CreateAccount(ctx context.Context, in CreateAccountInput) (*domain.Account, error)
}
