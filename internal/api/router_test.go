package api

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
	"github.com/workspacehub/workspace-api/internal/core/service"
)

const testSecret = "router-test-secret"

func newTestRouter(t *testing.T, strategy ports.AuthStrategy, admins ...string) http.Handler {
	t.Helper()
	return NewRouter(Dependencies{
		Log:      zerolog.Nop(),
		Strategy: strategy,
		Resolver: service.NewAdminResolver(service.NewAllowList(admins...)),
	})
}

func do(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func symmetricToken(t *testing.T, email string) string {
	t.Helper()
	claims := service.IdentityClaims{
		Email: email,
		Roles: []string{domain.RoleUser},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func symmetricStrategy(t *testing.T) ports.AuthStrategy {
	t.Helper()
	s, err := service.NewStrategy(service.StrategyConfig{Mode: service.ModeSymmetricJWT, Secret: testSecret})
	if err != nil {
		t.Fatalf("strategy: %v", err)
	}
	return s
}

func TestRouter_NoAuthorizationHeader(t *testing.T) {
	h := newTestRouter(t, service.NewMockStrategy(""))

	rec := do(h, http.MethodGet, "/api/auth/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "Unauthorized" {
		t.Fatalf("unexpected error %q", msg)
	}
	if rec.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Fatalf("missing challenge header")
	}
}

func TestRouter_MockToken(t *testing.T) {
	h := newTestRouter(t, service.NewMockStrategy(""))

	rec := do(h, http.MethodGet, "/api/auth/me", "mock-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var id domain.Identity
	if err := json.Unmarshal(rec.Body.Bytes(), &id); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if id.Email != "test_user@company.com" || !id.IsAdmin || !id.HasRole(domain.RoleUser) || !id.HasRole(domain.RoleAdmin) {
		t.Fatalf("unexpected identity: %+v", id)
	}

	if rec := do(h, http.MethodGet, "/admin/config", "mock-token"); rec.Code != http.StatusOK {
		t.Fatalf("mock identity should pass the admin guard, got %d", rec.Code)
	}
	if rec := do(h, http.MethodGet, "/api/auth/me", "wrong"); rec.Code != http.StatusUnauthorized || errorBody(t, rec) != "Invalid token" {
		t.Fatalf("expected 401 Invalid token, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_MockLogin(t *testing.T) {
	h := newTestRouter(t, service.NewMockStrategy("dev-token"))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"access_token":"dev-token"`) {
		t.Fatalf("unexpected login response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_AuthenticatedNonAdminIsForbidden(t *testing.T) {
	h := newTestRouter(t, symmetricStrategy(t))

	rec := do(h, http.MethodGet, "/admin/config", symmetricToken(t, "alice@example.com"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if msg := errorBody(t, rec); msg != "Admin role required" {
		t.Fatalf("unexpected error %q", msg)
	}
	if rec.Header().Get("WWW-Authenticate") != "" {
		t.Fatalf("403 must not carry a challenge")
	}
}

func TestRouter_AdminRoleClaimDoesNotElevate(t *testing.T) {
	h := newTestRouter(t, symmetricStrategy(t))

	claims := service.IdentityClaims{
		Email: "alice@example.com",
		Roles: []string{domain.RoleUser, domain.RoleAdmin},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec := do(h, http.MethodGet, "/admin/config", token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", rec.Code, rec.Body.String())
	}
	if msg := errorBody(t, rec); msg != "Admin role required" {
		t.Fatalf("unexpected error %q", msg)
	}

	rec = do(h, http.MethodGet, "/api/auth/me", token)
	var id domain.Identity
	if err := json.Unmarshal(rec.Body.Bytes(), &id); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if id.IsAdmin || id.HasRole(domain.RoleAdmin) {
		t.Fatalf("unlisted user must not be admin: %+v", id)
	}
}

func TestRouter_AllowListedUserIsAdmin(t *testing.T) {
	h := newTestRouter(t, symmetricStrategy(t), "Alice@Example.com")

	rec := do(h, http.MethodGet, "/admin/config", symmetricToken(t, "alice@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Admin config") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouter_ExpiredToken(t *testing.T) {
	h := newTestRouter(t, symmetricStrategy(t))

	claims := service.IdentityClaims{
		Email: "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec := do(h, http.MethodGet, "/api/auth/me", token)
	if rec.Code != http.StatusUnauthorized || errorBody(t, rec) != "Token expired" {
		t.Fatalf("expected 401 Token expired, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_IssuerMismatch(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	path := filepath.Join(t.TempDir(), "public_key.pem")
	if err := os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600); err != nil {
		t.Fatalf("write key: %v", err)
	}

	strategy, err := service.NewStrategy(service.StrategyConfig{
		Mode:          service.ModeAsymmetricJWT,
		PublicKeyPath: path,
		Issuer:        "acme",
	})
	if err != nil {
		t.Fatalf("strategy: %v", err)
	}
	h := newTestRouter(t, strategy)

	sign := func(issuer string) string {
		claims := service.IdentityClaims{
			Email: "alice@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}

	rec := do(h, http.MethodGet, "/api/auth/me", sign("other"))
	if rec.Code != http.StatusUnauthorized || errorBody(t, rec) != "Invalid token" {
		t.Fatalf("expected 401 Invalid token, got %d %s", rec.Code, rec.Body.String())
	}

	if rec := do(h, http.MethodGet, "/api/auth/me", sign("acme")); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for matching issuer, got %d %s", rec.Code, rec.Body.String())
	}

	// No login route in asymmetric mode.
	if rec := do(h, http.MethodPost, "/api/auth/login", ""); rec.Code == http.StatusOK {
		t.Fatalf("login should not be served in asymmetric mode")
	}
}

func TestRouter_HealthIsPublic(t *testing.T) {
	h := newTestRouter(t, symmetricStrategy(t))

	rec := do(h, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_DashboardRequiresKnownRole(t *testing.T) {
	h := newTestRouter(t, symmetricStrategy(t))

	claims := service.IdentityClaims{
		Email: "bob@example.com",
		Roles: []string{"viewer"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec := do(h, http.MethodGet, "/api/apps", token)
	if rec.Code != http.StatusForbidden || errorBody(t, rec) != "Insufficient role" {
		t.Fatalf("expected 403 Insufficient role, got %d %s", rec.Code, rec.Body.String())
	}

	if rec := do(h, http.MethodGet, "/api/auth/me", token); rec.Code != http.StatusOK {
		t.Fatalf("me should not require a role, got %d", rec.Code)
	}
}

type slowStrategy struct{}

func (slowStrategy) Name() string { return "slow" }

func (slowStrategy) Authenticate(ctx context.Context, _ string) (domain.Identity, error) {
	<-ctx.Done()
	return domain.Identity{}, ctx.Err()
}

func TestRouter_VerificationTimeoutIsUnauthorized(t *testing.T) {
	h := newTestRouter(t, slowStrategy{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil).WithContext(ctx)
	req.Header.Set(echo.HeaderAuthorization, "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	if msg := errorBody(t, rec); msg != "Invalid token" {
		t.Fatalf("unexpected error %q", msg)
	}
}
