package ports

import (
	"context"

	"github.com/workspacehub/workspace-api/internal/core/domain"
)

// AppRepository persists the app catalogue.
type AppRepository interface {
	ListApps(ctx context.Context, activeOnly bool) ([]*domain.App, error)
	GetApp(ctx context.Context, id string) (*domain.App, error)
	CreateApp(ctx context.Context, app *domain.App) error
	// UpdateApp replaces every mutable column of the row identified by app.ID.
	UpdateApp(ctx context.Context, app *domain.App) error
	DeleteApp(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// FavoriteStore keeps the per-user favourite app ids.
type FavoriteStore interface {
	List(ctx context.Context, email string) (map[string]struct{}, error)
	// Toggle flips membership and reports whether the app is now a favourite.
	Toggle(ctx context.Context, email, appID string) (bool, error)
}
