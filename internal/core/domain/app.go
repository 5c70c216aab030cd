package domain

import (
	"errors"
	"time"
)

var (
	ErrAppNotFound      = errors.New("app not found")
	ErrAppNameTaken     = errors.New("app name already exists")
	ErrAppURLTaken      = errors.New("app url already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

// DefaultCategoryIcon is used when a category is created without an icon.
const DefaultCategoryIcon = "Folder"

// App is one internal tool listed on the dashboard.
type App struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Icon           string    `json:"icon"`
	URL            string    `json:"url"`
	Description    string    `json:"description"`
	KeyFeatures    string    `json:"keyFeatures"`
	BaseActivity   string    `json:"baseActivity,omitempty"`
	MetricsEnabled bool      `json:"metricsEnabled"`
	MetricName     string    `json:"metricName,omitempty"`
	MetricValue    string    `json:"metricValue,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Category groups apps in the navigation.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppMetric is the headline number shown on an app card.
type AppMetric struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Trend string `json:"trend"`
}

// DefaultAppMetric is returned for apps without metrics configured.
var DefaultAppMetric = AppMetric{Name: "Uptime", Value: "100%", Trend: "neutral"}
