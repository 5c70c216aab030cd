package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workspacehub/workspace-api/internal/api/metrics"
	"github.com/workspacehub/workspace-api/internal/core/ports"
)

// AppHandler serves the dashboard routes available to every authenticated user.
type AppHandler struct {
	service ports.AppService
}

func NewAppHandler(service ports.AppService) *AppHandler {
	return &AppHandler{service: service}
}

// List handles GET /api/apps.
//
// @Summary      Dashboard apps
// @Description  Active apps with the caller's favourites flagged.
// @Tags         apps
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.DashboardApp
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/apps [get]
func (h *AppHandler) List(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	apps, err := h.service.Dashboard(c.Request().Context(), id.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apps)
}

// ToggleFavorite handles POST /api/apps/:id/favorite.
//
// @Summary      Toggle a favourite
// @Tags         apps
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "App id"
// @Success      200  {object}  favoriteResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/apps/{id}/favorite [post]
func (h *AppHandler) ToggleFavorite(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	res, err := h.service.ToggleFavorite(c.Request().Context(), id.Email, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.FavoriteTogglesTotal.WithLabelValues(res.Action).Inc()

	return c.JSON(http.StatusOK, favoriteResponse{
		Status:     "success",
		Action:     res.Action,
		IsFavorite: res.IsFavorite,
	})
}

// Metric handles GET /api/metrics/:id.
//
// @Summary      App headline metric
// @Tags         apps
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "App id"
// @Success      200  {object}  domain.AppMetric
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/metrics/{id} [get]
func (h *AppHandler) Metric(c echo.Context) error {
	m, err := h.service.Metric(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}
