package ports

import (
	"context"

	"github.com/workspacehub/workspace-api/internal/core/domain"
)

// AppInput carries writable app fields. Nil pointers leave a field unchanged
// on update.
type AppInput struct {
	Name           *string
	Category       *string
	Icon           *string
	URL            *string
	Description    *string
	KeyFeatures    *string
	BaseActivity   *string
	MetricsEnabled *bool
	MetricName     *string
	MetricValue    *string
	IsActive       *bool
}

// CategoryInput carries writable category fields.
type CategoryInput struct {
	Name *string
	Icon *string
}

// DashboardApp is an app as seen by one user.
type DashboardApp struct {
	*domain.App
	IsFavorite bool `json:"isFavorite"`
}

// FavoriteResult reports the outcome of a favourite toggle.
type FavoriteResult struct {
	Action     string
	IsFavorite bool
}

// AppService exposes the dashboard and admin catalogue use cases.
type AppService interface {
	Dashboard(ctx context.Context, email string) ([]DashboardApp, error)
	ToggleFavorite(ctx context.Context, email, appID string) (*FavoriteResult, error)
	Metric(ctx context.Context, appID string) (domain.AppMetric, error)

	ListApps(ctx context.Context) ([]*domain.App, error)
	CreateApp(ctx context.Context, in AppInput) (*domain.App, error)
	UpdateApp(ctx context.Context, id string, in AppInput) (*domain.App, error)
	DeleteApp(ctx context.Context, id string) error

	ListCategories(ctx context.Context) ([]*domain.Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, in CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}
