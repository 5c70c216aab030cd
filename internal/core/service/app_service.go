package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
)

type appService struct {
	repo      ports.AppRepository
	favorites ports.FavoriteStore
	log       zerolog.Logger
	now       func() time.Time
}

// NewAppService returns the dashboard/catalogue service.
func NewAppService(repo ports.AppRepository, favorites ports.FavoriteStore, log zerolog.Logger) ports.AppService {
	return &appService{repo: repo, favorites: favorites, log: log, now: time.Now}
}

// Dashboard lists active apps with the caller's favourites flagged. A
// favourites outage degrades to "no favourites" rather than failing the page.
func (s *appService) Dashboard(ctx context.Context, email string) ([]ports.DashboardApp, error) {
	apps, err := s.repo.ListApps(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	favs, err := s.favorites.List(ctx, email)
	if err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("favorites unavailable")
		favs = nil
	}

	out := make([]ports.DashboardApp, 0, len(apps))
	for _, a := range apps {
		_, fav := favs[a.ID]
		out = append(out, ports.DashboardApp{App: a, IsFavorite: fav})
	}
	return out, nil
}

func (s *appService) ToggleFavorite(ctx context.Context, email, appID string) (*ports.FavoriteResult, error) {
	if _, err := s.repo.GetApp(ctx, appID); err != nil {
		return nil, err
	}

	isFav, err := s.favorites.Toggle(ctx, email, appID)
	if err != nil {
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}

	action := "removed"
	if isFav {
		action = "added"
	}
	return &ports.FavoriteResult{Action: action, IsFavorite: isFav}, nil
}

func (s *appService) Metric(ctx context.Context, appID string) (domain.AppMetric, error) {
	app, err := s.repo.GetApp(ctx, appID)
	if err != nil {
		return domain.AppMetric{}, err
	}
	if !app.MetricsEnabled || app.MetricName == "" {
		return domain.DefaultAppMetric, nil
	}
	return domain.AppMetric{Name: app.MetricName, Value: app.MetricValue, Trend: "up"}, nil
}

func (s *appService) ListApps(ctx context.Context) ([]*domain.App, error) {
	return s.repo.ListApps(ctx, false)
}

func (s *appService) CreateApp(ctx context.Context, in ports.AppInput) (*domain.App, error) {
	now := s.now().UTC()
	app := &domain.App{
		ID:        uuid.NewString(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyAppInput(app, in)

	if err := s.checkAppUnique(ctx, app); err != nil {
		return nil, err
	}
	if err := s.repo.CreateApp(ctx, app); err != nil {
		return nil, err
	}

	s.log.Info().Str("app_id", app.ID).Str("name", app.Name).Msg("app created")
	return app, nil
}

func (s *appService) UpdateApp(ctx context.Context, id string, in ports.AppInput) (*domain.App, error) {
	app, err := s.repo.GetApp(ctx, id)
	if err != nil {
		return nil, err
	}

	applyAppInput(app, in)
	app.UpdatedAt = s.now().UTC()

	if err := s.checkAppUnique(ctx, app); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateApp(ctx, app); err != nil {
		return nil, err
	}

	s.log.Info().Str("app_id", app.ID).Msg("app updated")
	return app, nil
}

func (s *appService) DeleteApp(ctx context.Context, id string) error {
	if err := s.repo.DeleteApp(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("app_id", id).Msg("app deleted")
	return nil
}

// checkAppUnique enforces case-insensitive name and exact url uniqueness
// against every other app.
func (s *appService) checkAppUnique(ctx context.Context, app *domain.App) error {
	all, err := s.repo.ListApps(ctx, false)
	if err != nil {
		return err
	}
	for _, other := range all {
		if other.ID == app.ID {
			continue
		}
		if strings.EqualFold(other.Name, app.Name) {
			return domain.ErrAppNameTaken
		}
		if other.URL == app.URL {
			return domain.ErrAppURLTaken
		}
	}
	return nil
}

func applyAppInput(app *domain.App, in ports.AppInput) {
	setString(&app.Name, in.Name)
	setString(&app.Category, in.Category)
	setString(&app.Icon, in.Icon)
	setString(&app.URL, in.URL)
	setString(&app.Description, in.Description)
	setString(&app.KeyFeatures, in.KeyFeatures)
	setString(&app.BaseActivity, in.BaseActivity)
	setString(&app.MetricName, in.MetricName)
	setString(&app.MetricValue, in.MetricValue)
	if in.MetricsEnabled != nil {
		app.MetricsEnabled = *in.MetricsEnabled
	}
	if in.IsActive != nil {
		app.IsActive = *in.IsActive
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func (s *appService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *appService) CreateCategory(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	now := s.now().UTC()
	c := &domain.Category{
		ID:        uuid.NewString(),
		Icon:      domain.DefaultCategoryIcon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	setString(&c.Name, in.Name)
	setString(&c.Icon, in.Icon)
	if c.Icon == "" {
		c.Icon = domain.DefaultCategoryIcon
	}

	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *appService) UpdateCategory(ctx context.Context, id string, in ports.CategoryInput) (*domain.Category, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	var c *domain.Category
	for _, existing := range cats {
		if existing.ID == id {
			c = existing
			break
		}
	}
	if c == nil {
		return nil, domain.ErrCategoryNotFound
	}

	setString(&c.Name, in.Name)
	setString(&c.Icon, in.Icon)
	c.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *appService) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.DeleteCategory(ctx, id)
}
