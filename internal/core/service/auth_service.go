package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// TokenIssuerConfig describes the tokens minted by AuthService. It must match
// the symmetric strategy's verification settings.
type TokenIssuerConfig struct {
	Algorithm string
	Secret    string
	Issuer    string
	Audience  string
	TTL       time.Duration
}

// AuthService implements login and account creation for symmetric-jwt mode.
type AuthService struct {
	repo     ports.AccountRepository
	resolver ports.AdminResolver
	method   jwt.SigningMethod
	secret   []byte
	issuer   string
	aud      string
	ttl      time.Duration
	now      func() time.Time
}

// NewAuthService builds the login service. resolver describes the returned
// identity the way the auth middleware will see it; it may be nil.
func NewAuthService(repo ports.AccountRepository, resolver ports.AdminResolver, cfg TokenIssuerConfig) (*AuthService, error) {
	alg := cfg.Algorithm
	if alg == "" {
		alg = ModeSymmetricJWT.DefaultAlgorithm()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("auth service: %w: %q", domain.ErrAlgorithmMismatch, alg)
	}
	if cfg.Secret == "" {
		return nil, fmt.Errorf("auth service: %w: empty secret", domain.ErrKeyMaterialUnavailable)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		repo:     repo,
		resolver: resolver,
		method:   method,
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		aud:      cfg.Audience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

func (s *AuthService) CreateAccount(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = []string{domain.RoleUser}
	}

	now := s.now().UTC()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         in.Name,
		PasswordHash: string(hash),
		Roles:        domain.NewIdentity(email, in.Name, roles).Roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.repo.Create(ctx, account)
}

// Login checks the password and returns a signed bearer token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.IssuedToken, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	id := account.Identity()
	token, err := s.generateToken(id)
	if err != nil {
		return nil, err
	}

	if s.resolver != nil {
		id = s.resolver.Resolve(id)
	}
	return &ports.IssuedToken{AccessToken: token, TokenType: "bearer", Identity: id}, nil
}

func (s *AuthService) generateToken(id domain.Identity) (string, error) {
	now := s.now()
	claims := IdentityClaims{
		Email: id.Email,
		Name:  id.Name,
		Roles: id.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Email,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	if s.aud != "" {
		claims.Audience = jwt.ClaimStrings{s.aud}
	}

	t := jwt.NewWithClaims(s.method, claims)
	return t.SignedString(s.secret)
}
