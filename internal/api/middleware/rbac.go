package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
)

// RequireAdmin only lets identities with the admin role through. It must be
// mounted after Authenticate; a request without an identity is refused.
func RequireAdmin(observer ports.AuthObserver) echo.MiddlewareFunc {
	if observer == nil {
		observer = ports.NopAuthObserver{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ev := eventFor(c, "")
			id, ok := IdentityFrom(c)
			if !ok {
				ev.Err = domain.ErrForbidden
				observer.AdminDecision(c.Request().Context(), ev, false)
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden").SetInternal(domain.ErrForbidden)
			}

			ev.Identity = &id
			if !id.IsAdmin || !id.HasRole(domain.RoleAdmin) {
				ev.Err = domain.ErrInsufficientRole
				observer.AdminDecision(c.Request().Context(), ev, false)
				return echo.NewHTTPError(http.StatusForbidden, "Admin role required").SetInternal(domain.ErrInsufficientRole)
			}

			observer.AdminDecision(c.Request().Context(), ev, true)
			return next(c)
		}
	}
}

// RequireRole enforces that the identity holds at least one of roles.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}
			for _, r := range roles {
				if id.HasRole(r) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient role").SetInternal(domain.ErrInsufficientRole)
		}
	}
}
