package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
)

type stubAccountRepo struct {
	accounts map[string]*domain.Account
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Roles = append([]string(nil), a.Roles...)
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if _, exists := r.accounts[account.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.accounts[account.Email] = cloneAccount(account)
	return cloneAccount(account), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	a, ok := r.accounts[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneAccount(a), nil
}

func newTestAuthService(t *testing.T) (*AuthService, *stubAccountRepo) {
	t.Helper()
	repo := newStubAccountRepo()
	svc, err := NewAuthService(repo, NewAdminResolver(NewAllowList("admin@example.com")), TokenIssuerConfig{Secret: "secret", Issuer: "workspace", TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewAuthService returned error: %v", err)
	}
	return svc, repo
}

func TestAuthService_CreateAccount(t *testing.T) {
	svc, _ := newTestAuthService(t)

	account, err := svc.CreateAccount(context.Background(), ports.CreateAccountInput{
		Email:    " Alice@Example.com ",
		Name:     "Alice",
		Password: "pass123",
	})
	if err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	if account.Email != "alice@example.com" {
		t.Fatalf("expected normalised email, got %q", account.Email)
	}
	if account.ID == "" {
		t.Fatalf("expected generated id")
	}
	if account.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(account.Roles) != 1 || account.Roles[0] != domain.RoleUser {
		t.Fatalf("unexpected roles: %v", account.Roles)
	}
}

func TestAuthService_CreateAccount_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)

	if _, err := svc.CreateAccount(context.Background(), ports.CreateAccountInput{Email: "", Password: "x"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.CreateAccount(context.Background(), ports.CreateAccountInput{Email: "a@b.c"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	in := ports.CreateAccountInput{Email: "a@b.c", Password: "x"}
	if _, err := svc.CreateAccount(context.Background(), in); err != nil {
		t.Fatalf("first CreateAccount returned error: %v", err)
	}
	if _, err := svc.CreateAccount(context.Background(), in); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_TokenAcceptedBySymmetricStrategy(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.CreateAccount(ctx, ports.CreateAccountInput{
		Email: "bob@example.com", Name: "Bob", Password: "hunter2", Roles: []string{"user", "editor"},
	}); err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}

	issued, err := svc.Login(ctx, "BOB@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if issued.TokenType != "bearer" || issued.AccessToken == "" {
		t.Fatalf("unexpected token: %+v", issued)
	}

	strategy, err := NewStrategy(StrategyConfig{Mode: ModeSymmetricJWT, Secret: "secret", Issuer: "workspace"})
	if err != nil {
		t.Fatalf("NewStrategy returned error: %v", err)
	}
	id, err := strategy.Authenticate(ctx, issued.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if id.Email != "bob@example.com" || id.Name != "Bob" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if !id.HasRole("editor") || id.IsAdmin {
		t.Fatalf("unexpected roles: %+v", id)
	}
}

func TestAuthService_Login_ResolvesAdmin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	for _, email := range []string{"admin@example.com", "carol@example.com"} {
		if _, err := svc.CreateAccount(ctx, ports.CreateAccountInput{Email: email, Password: "hunter2"}); err != nil {
			t.Fatalf("CreateAccount(%s) returned error: %v", email, err)
		}
	}

	issued, err := svc.Login(ctx, "admin@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !issued.Identity.IsAdmin || !issued.Identity.HasRole(domain.RoleAdmin) {
		t.Fatalf("allow-listed user should be reported as admin: %+v", issued.Identity)
	}

	issued, err = svc.Login(ctx, "carol@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if issued.Identity.IsAdmin {
		t.Fatalf("unlisted user reported as admin: %+v", issued.Identity)
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.CreateAccount(ctx, ports.CreateAccountInput{Email: "bob@example.com", Password: "hunter2"}); err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}

	cases := map[string][2]string{
		"wrong password": {"bob@example.com", "nope"},
		"unknown user":   {"eve@example.com", "hunter2"},
		"empty password": {"bob@example.com", ""},
	}
	for name, c := range cases {
		if _, err := svc.Login(ctx, c[0], c[1]); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}

func TestAuthService_ExpiredTokenRejected(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	if _, err := svc.CreateAccount(ctx, ports.CreateAccountInput{Email: "bob@example.com", Password: "hunter2"}); err != nil {
		t.Fatalf("CreateAccount returned error: %v", err)
	}
	issued, err := svc.Login(ctx, "bob@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	strategy, err := NewStrategy(StrategyConfig{Mode: ModeSymmetricJWT, Secret: "secret"})
	if err != nil {
		t.Fatalf("NewStrategy returned error: %v", err)
	}
	if _, err := strategy.Authenticate(ctx, issued.AccessToken); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestNewAuthService_RequiresHMACSecret(t *testing.T) {
	if _, err := NewAuthService(newStubAccountRepo(), nil, TokenIssuerConfig{}); !errors.Is(err, domain.ErrKeyMaterialUnavailable) {
		t.Fatalf("expected ErrKeyMaterialUnavailable, got %v", err)
	}
	if _, err := NewAuthService(newStubAccountRepo(), nil, TokenIssuerConfig{Algorithm: "RS256", Secret: "x"}); !errors.Is(err, domain.ErrAlgorithmMismatch) {
		t.Fatalf("expected ErrAlgorithmMismatch, got %v", err)
	}
}
