package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
)

// AppRepository implements ports.AppRepository on the catalogue database.
type AppRepository struct {
	db *DB
}

var _ ports.AppRepository = (*AppRepository)(nil)

func NewAppRepository(db *DB) *AppRepository {
	return &AppRepository{db: db}
}

const appColumns = `id, name, category, icon, url, description, key_features, base_activity,
	metrics_enabled, metric_name, metric_value, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApp(row rowScanner) (*domain.App, error) {
	var (
		a                    domain.App
		createdAt, updatedAt string
	)
	err := row.Scan(&a.ID, &a.Name, &a.Category, &a.Icon, &a.URL, &a.Description, &a.KeyFeatures,
		&a.BaseActivity, &a.MetricsEnabled, &a.MetricName, &a.MetricValue, &a.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)
	return &a, nil
}

func (r *AppRepository) ListApps(ctx context.Context, activeOnly bool) ([]*domain.App, error) {
	query := `SELECT ` + appColumns + ` FROM apps`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY category, name`

	rows, err := r.db.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list apps: %w", err)
	}
	defer rows.Close()

	apps := make([]*domain.App, 0)
	for rows.Next() {
		a, err := scanApp(rows)
		if err != nil {
			return nil, fmt.Errorf("scan app: %w", err)
		}
		apps = append(apps, a)
	}
	return apps, rows.Err()
}

func (r *AppRepository) GetApp(ctx context.Context, id string) (*domain.App, error) {
	row := r.db.db.QueryRowContext(ctx, `SELECT `+appColumns+` FROM apps WHERE id = ?`, id)
	a, err := scanApp(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAppNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get app: %w", err)
	}
	return a, nil
}

func (r *AppRepository) CreateApp(ctx context.Context, a *domain.App) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO apps (`+appColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Category, a.Icon, a.URL, a.Description, a.KeyFeatures, a.BaseActivity,
		a.MetricsEnabled, a.MetricName, a.MetricValue, a.IsActive,
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		return appWriteError("create app", err)
	}
	return nil
}

func (r *AppRepository) UpdateApp(ctx context.Context, a *domain.App) error {
	res, err := r.db.db.ExecContext(ctx, `
		UPDATE apps SET
			name = ?, category = ?, icon = ?, url = ?, description = ?, key_features = ?,
			base_activity = ?, metrics_enabled = ?, metric_name = ?, metric_value = ?,
			is_active = ?, updated_at = ?
		WHERE id = ?`,
		a.Name, a.Category, a.Icon, a.URL, a.Description, a.KeyFeatures, a.BaseActivity,
		a.MetricsEnabled, a.MetricName, a.MetricValue, a.IsActive, formatTime(a.UpdatedAt), a.ID,
	)
	if err != nil {
		return appWriteError("update app", err)
	}
	return expectOneRow(res, domain.ErrAppNotFound)
}

func (r *AppRepository) DeleteApp(ctx context.Context, id string) error {
	res, err := r.db.db.ExecContext(ctx, `DELETE FROM apps WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete app: %w", err)
	}
	return expectOneRow(res, domain.ErrAppNotFound)
}

func (r *AppRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.db.db.QueryContext(ctx, `SELECT id, name, icon, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	cats := make([]*domain.Category, 0)
	for rows.Next() {
		var (
			c                    domain.Category
			createdAt, updatedAt string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.CreatedAt = parseTime(createdAt)
		c.UpdatedAt = parseTime(updatedAt)
		cats = append(cats, &c)
	}
	return cats, rows.Err()
}

func (r *AppRepository) CreateCategory(ctx context.Context, c *domain.Category) error {
	_, err := r.db.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, icon, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Icon, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		if uniqueViolation(err) != "" {
			return domain.ErrCategoryExists
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *AppRepository) UpdateCategory(ctx context.Context, c *domain.Category) error {
	res, err := r.db.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, icon = ?, updated_at = ? WHERE id = ?`,
		c.Name, c.Icon, formatTime(c.UpdatedAt), c.ID,
	)
	if err != nil {
		if uniqueViolation(err) != "" {
			return domain.ErrCategoryExists
		}
		return fmt.Errorf("update category: %w", err)
	}
	return expectOneRow(res, domain.ErrCategoryNotFound)
}

func (r *AppRepository) DeleteCategory(ctx context.Context, id string) error {
	res, err := r.db.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return expectOneRow(res, domain.ErrCategoryNotFound)
}

func appWriteError(op string, err error) error {
	switch uniqueViolation(err) {
	case "apps.name":
		return domain.ErrAppNameTaken
	case "apps.url":
		return domain.ErrAppURLTaken
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func expectOneRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
