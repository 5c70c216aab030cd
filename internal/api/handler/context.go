package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workspacehub/workspace-api/internal/api/middleware"
	"github.com/workspacehub/workspace-api/internal/core/domain"
)

// currentIdentity returns the identity attached by the auth middleware.
// Handlers mounted without it get a 401 rather than a zero identity.
func currentIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.Email == "" {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}
