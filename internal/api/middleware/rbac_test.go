package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/workspacehub/workspace-api/internal/core/domain"
)

func newGuardContext(id *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/config", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id != nil {
		c.Set(IdentityKey, *id)
	}
	return c, rec
}

func TestRequireAdmin_Allows(t *testing.T) {
	id := domain.NewIdentity("boss@example.com", "", []string{"user", "admin"})
	c, rec := newGuardContext(&id)
	obs := &recordingObserver{}

	called := false
	handler := RequireAdmin(obs)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(obs.decisions) != 1 || !obs.decisions[0] {
		t.Fatalf("expected one granted decision, got %v", obs.decisions)
	}
}

func TestRequireAdmin_ForbidsNonAdmin(t *testing.T) {
	id := domain.NewIdentity("alice@example.com", "", []string{"user"})
	c, _ := newGuardContext(&id)
	obs := &recordingObserver{}

	handler := RequireAdmin(obs)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	expectHTTPError(t, handler(c), http.StatusForbidden, "Admin role required")
	if len(obs.decisions) != 1 || obs.decisions[0] {
		t.Fatalf("expected one denied decision, got %v", obs.decisions)
	}
}

func TestRequireAdmin_InconsistentIdentityIsDenied(t *testing.T) {
	// IsAdmin without the role is never trusted.
	id := domain.Identity{Email: "x@example.com", Roles: []string{"user"}, IsAdmin: true}
	c, _ := newGuardContext(&id)

	handler := RequireAdmin(nil)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	expectHTTPError(t, handler(c), http.StatusForbidden, "Admin role required")
}

func TestRequireAdmin_NoIdentity(t *testing.T) {
	c, _ := newGuardContext(nil)

	handler := RequireAdmin(nil)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	expectHTTPError(t, handler(c), http.StatusForbidden, "Forbidden")
}

func TestRequireRole(t *testing.T) {
	id := domain.NewIdentity("ed@example.com", "", []string{"user", "editor"})
	c, rec := newGuardContext(&id)

	handler := RequireRole("editor", "admin")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newGuardContext(&id)
	handler = RequireRole("admin")(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})
	expectHTTPError(t, handler(c), http.StatusForbidden, "Insufficient role")
}
