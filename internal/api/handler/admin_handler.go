package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workspacehub/workspace-api/internal/core/ports"
)

// AdminHandler serves the catalogue console. Every route sits behind the
// admin guard.
type AdminHandler struct {
	service ports.AppService
}

func NewAdminHandler(service ports.AppService) *AdminHandler {
	return &AdminHandler{service: service}
}

// Config handles GET /admin/config.
//
// @Summary      Admin probe
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/config [get]
func (h *AdminHandler) Config(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Admin config"})
}

// ListApps handles GET /admin/apps, including inactive apps.
//
// @Summary      List all apps
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.App
// @Failure      403  {object}  map[string]string
// @Router       /admin/apps [get]
func (h *AdminHandler) ListApps(c echo.Context) error {
	apps, err := h.service.ListApps(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apps)
}

// CreateApp handles POST /admin/apps.
//
// @Summary      Create an app
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAppRequest  true  "App"
// @Success      201   {object}  domain.App
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /admin/apps [post]
func (h *AdminHandler) CreateApp(c echo.Context) error {
	var req createAppRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	app, err := h.service.CreateApp(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, app)
}

// UpdateApp handles PUT /admin/apps/:id.
//
// @Summary      Update an app
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "App id"
// @Param        body  body      updateAppRequest  true  "Fields to change"
// @Success      200   {object}  domain.App
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /admin/apps/{id} [put]
func (h *AdminHandler) UpdateApp(c echo.Context) error {
	var req updateAppRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	app, err := h.service.UpdateApp(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, app)
}

// DeleteApp handles DELETE /admin/apps/:id.
//
// @Summary      Delete an app
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "App id"
// @Success      200  {object}  statusResponse
// @Failure      404  {object}  map[string]string
// @Router       /admin/apps/{id} [delete]
func (h *AdminHandler) DeleteApp(c echo.Context) error {
	if err := h.service.DeleteApp(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}

// ListCategories handles GET /admin/categories.
//
// @Summary      List categories
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Category
// @Router       /admin/categories [get]
func (h *AdminHandler) ListCategories(c echo.Context) error {
	cats, err := h.service.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cats)
}

// CreateCategory handles POST /admin/categories.
//
// @Summary      Create a category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  domain.Category
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /admin/categories [post]
func (h *AdminHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cat, err := h.service.CreateCategory(c.Request().Context(), ports.CategoryInput{Name: req.Name, Icon: req.Icon})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, cat)
}

// UpdateCategory handles PUT /admin/categories/:id.
//
// @Summary      Update a category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Category id"
// @Param        body  body      updateCategoryRequest  true  "Fields to change"
// @Success      200   {object}  domain.Category
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /admin/categories/{id} [put]
func (h *AdminHandler) UpdateCategory(c echo.Context) error {
	var req updateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cat, err := h.service.UpdateCategory(c.Request().Context(), c.Param("id"), ports.CategoryInput{Name: req.Name, Icon: req.Icon})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

// DeleteCategory handles DELETE /admin/categories/:id.
//
// @Summary      Delete a category
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path      string  true  "Category id"
// @Success      200  {object}  statusResponse
// @Failure      404  {object}  map[string]string
// @Router       /admin/categories/{id} [delete]
func (h *AdminHandler) DeleteCategory(c echo.Context) error {
	if err := h.service.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "deleted"})
}
