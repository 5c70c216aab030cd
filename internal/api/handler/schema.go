package handler

import (
	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
)

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	User        *domain.Identity `json:"user,omitempty"`
}

type createUserRequest struct {
	Email    string   `json:"email"    validate:"required,email"`
	Name     string   `json:"name"     validate:"max=100"`
	Password string   `json:"password" validate:"required,min=8"`
	Roles    []string `json:"roles"    validate:"omitempty,dive,oneof=user"`
}

// --- Dashboard ---

type favoriteResponse struct {
	Status     string `json:"status"`
	Action     string `json:"action"`
	IsFavorite bool   `json:"isFavorite"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// --- Admin catalogue ---

type createAppRequest struct {
	Name           string `json:"name"           validate:"required,notblank,max=100"`
	Category       string `json:"category"       validate:"required,notblank,max=100"`
	Icon           string `json:"icon"           validate:"max=100"`
	URL            string `json:"url"            validate:"required,url"`
	Description    string `json:"description"    validate:"max=2000"`
	KeyFeatures    string `json:"keyFeatures"    validate:"max=2000"`
	BaseActivity   string `json:"baseActivity"   validate:"max=100"`
	MetricsEnabled bool   `json:"metricsEnabled"`
	MetricName     string `json:"metricName"     validate:"max=100"`
	MetricValue    string `json:"metricValue"    validate:"max=100"`
	IsActive       *bool  `json:"isActive"`
}

func (r createAppRequest) toInput() ports.AppInput {
	in := ports.AppInput{
		Name:           &r.Name,
		Category:       &r.Category,
		Icon:           &r.Icon,
		URL:            &r.URL,
		Description:    &r.Description,
		KeyFeatures:    &r.KeyFeatures,
		BaseActivity:   &r.BaseActivity,
		MetricsEnabled: &r.MetricsEnabled,
		MetricName:     &r.MetricName,
		MetricValue:    &r.MetricValue,
		IsActive:       r.IsActive,
	}
	return in
}

// updateAppRequest is a partial update; absent fields are left unchanged.
type updateAppRequest struct {
	Name           *string `json:"name"           validate:"omitempty,notblank,max=100"`
	Category       *string `json:"category"       validate:"omitempty,notblank,max=100"`
	Icon           *string `json:"icon"           validate:"omitempty,max=100"`
	URL            *string `json:"url"            validate:"omitempty,url"`
	Description    *string `json:"description"    validate:"omitempty,max=2000"`
	KeyFeatures    *string `json:"keyFeatures"    validate:"omitempty,max=2000"`
	BaseActivity   *string `json:"baseActivity"   validate:"omitempty,max=100"`
	MetricsEnabled *bool   `json:"metricsEnabled"`
	MetricName     *string `json:"metricName"     validate:"omitempty,max=100"`
	MetricValue    *string `json:"metricValue"    validate:"omitempty,max=100"`
	IsActive       *bool   `json:"isActive"`
}

func (r updateAppRequest) toInput() ports.AppInput {
	return ports.AppInput{
		Name:           r.Name,
		Category:       r.Category,
		Icon:           r.Icon,
		URL:            r.URL,
		Description:    r.Description,
		KeyFeatures:    r.KeyFeatures,
		BaseActivity:   r.BaseActivity,
		MetricsEnabled: r.MetricsEnabled,
		MetricName:     r.MetricName,
		MetricValue:    r.MetricValue,
		IsActive:       r.IsActive,
	}
}

type categoryRequest struct {
	Name *string `json:"name" validate:"required,notblank,max=100"`
	Icon *string `json:"icon" validate:"omitempty,max=100"`
}

type updateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,notblank,max=100"`
	Icon *string `json:"icon" validate:"omitempty,max=100"`
}
