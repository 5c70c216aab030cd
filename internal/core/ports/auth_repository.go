package ports

import (
	"context"

	"github.com/workspacehub/workspace-api/internal/core/domain"
)

// AccountRepository defines persistence for local login accounts.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
}
