package service

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
)

// AuthMode selects the auth strategy.
type AuthMode string

const (
	ModeMock          AuthMode = "mock"
	ModeSymmetricJWT  AuthMode = "symmetric-jwt"
	ModeAsymmetricJWT AuthMode = "asymmetric-jwt"
)

// DefaultMockToken is the sentinel accepted by the mock strategy.
const DefaultMockToken = "mock-token"

var ErrUnknownAuthMode = errors.New("unknown auth mode")

// ParseAuthMode accepts the canonical mode names plus the legacy aliases
// "login" (symmetric) and "jwt"/"sso" (asymmetric).
func ParseAuthMode(s string) (AuthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mock":
		return ModeMock, nil
	case "symmetric-jwt", "login":
		return ModeSymmetricJWT, nil
	case "asymmetric-jwt", "jwt", "sso":
		return ModeAsymmetricJWT, nil
	default:
		return "", fmt.Errorf("%w: %q (valid options: mock, symmetric-jwt, asymmetric-jwt)", ErrUnknownAuthMode, s)
	}
}

// DefaultAlgorithm returns the algorithm used when none is configured.
func (m AuthMode) DefaultAlgorithm() string {
	switch m {
	case ModeSymmetricJWT:
		return jwt.SigningMethodHS256.Alg()
	case ModeAsymmetricJWT:
		return jwt.SigningMethodRS256.Alg()
	default:
		return ""
	}
}

// StrategyConfig is the validated subset of configuration a strategy needs.
type StrategyConfig struct {
	Mode          AuthMode
	Algorithm     string
	Secret        string
	PublicKeyPath string
	Issuer        string
	Audience      string
	Leeway        time.Duration
	MockToken     string
}

// NewStrategy maps configuration to exactly one strategy. It is called once
// at startup; any error must abort the process.
func NewStrategy(cfg StrategyConfig) (ports.AuthStrategy, error) {
	alg := cfg.Algorithm
	if alg == "" {
		alg = cfg.Mode.DefaultAlgorithm()
	}

	switch cfg.Mode {
	case ModeMock:
		return NewMockStrategy(cfg.MockToken), nil
	case ModeSymmetricJWT:
		return NewSymmetricStrategy(alg, []byte(cfg.Secret), cfg.Issuer, cfg.Audience, cfg.Leeway)
	case ModeAsymmetricJWT:
		return NewAsymmetricStrategy(alg, cfg.PublicKeyPath, cfg.Issuer, cfg.Audience, cfg.Leeway)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAuthMode, cfg.Mode)
	}
}

// MockStrategy accepts a single sentinel token. Development only.
type MockStrategy struct {
	token string
}

// MockIdentity is the fixed identity returned by MockStrategy.
func MockIdentity() domain.Identity {
	return domain.NewIdentity("test_user@company.com", "Test User", []string{domain.RoleUser, domain.RoleAdmin})
}

func NewMockStrategy(token string) *MockStrategy {
	if token == "" {
		token = DefaultMockToken
	}
	return &MockStrategy{token: token}
}

func (s *MockStrategy) Name() string { return string(ModeMock) }

// Token returns the accepted sentinel.
func (s *MockStrategy) Token() string { return s.token }

func (s *MockStrategy) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}
	if token != s.token {
		return domain.Identity{}, domain.NewAuthenticationError(domain.ErrInvalidSignature, "invalid mock token")
	}
	return MockIdentity(), nil
}

// jwtStrategy is shared by the symmetric and asymmetric strategies.
type jwtStrategy struct {
	name         string
	verifier     *TokenVerifier
	trustRoles   bool
	defaultRoles []string
}

func (s *jwtStrategy) Name() string { return s.name }

func (s *jwtStrategy) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}

	claims, err := s.verifier.Verify(token)
	if err != nil {
		return domain.Identity{}, domain.NewAuthenticationError(err, "jwt verification failed: "+err.Error())
	}

	email := strings.TrimSpace(claims.Email)
	if email == "" {
		return domain.Identity{}, domain.NewAuthenticationError(domain.ErrClaimMissing, "token missing email claim")
	}

	roles := s.defaultRoles
	if s.trustRoles {
		if claimed := withoutRole(claims.Roles, domain.RoleAdmin); len(claimed) > 0 {
			roles = claimed
		}
	}
	return domain.NewIdentity(email, claims.Name, roles), nil
}

// withoutRole drops role from roles. Admin is granted only by the allow-list,
// never by a token claim.
func withoutRole(roles []string, role string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if r != role {
			out = append(out, r)
		}
	}
	return out
}

// NewSymmetricStrategy verifies HMAC tokens with a shared secret. The roles
// claim is honoured except for admin, which only the allow-list grants.
func NewSymmetricStrategy(alg string, secret []byte, issuer, audience string, leeway time.Duration) (ports.AuthStrategy, error) {
	if _, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("symmetric strategy: %w: %q is not an HMAC algorithm", domain.ErrAlgorithmMismatch, alg)
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("symmetric strategy: %w: empty secret", domain.ErrKeyMaterialUnavailable)
	}

	v, err := NewTokenVerifier(VerifierConfig{
		Algorithm: alg,
		Key:       secret,
		Issuer:    issuer,
		Audience:  audience,
		Leeway:    leeway,
	})
	if err != nil {
		return nil, fmt.Errorf("symmetric strategy: %w", err)
	}

	return &jwtStrategy{
		name:         string(ModeSymmetricJWT),
		verifier:     v,
		trustRoles:   true,
		defaultRoles: []string{domain.RoleUser},
	}, nil
}

// NewAsymmetricStrategy verifies RSA-signed tokens with a public key read
// once from keyPath. Roles from the external issuer are ignored.
func NewAsymmetricStrategy(alg, keyPath, issuer, audience string, leeway time.Duration) (ports.AuthStrategy, error) {
	switch jwt.GetSigningMethod(alg).(type) {
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
	default:
		return nil, fmt.Errorf("asymmetric strategy: %w: %q is not an RSA algorithm", domain.ErrAlgorithmMismatch, alg)
	}

	key, err := LoadRSAPublicKey(keyPath)
	if err != nil {
		return nil, fmt.Errorf("asymmetric strategy: %w", err)
	}

	v, err := NewTokenVerifier(VerifierConfig{
		Algorithm: alg,
		Key:       key,
		Issuer:    issuer,
		Audience:  audience,
		Leeway:    leeway,
	})
	if err != nil {
		return nil, fmt.Errorf("asymmetric strategy: %w", err)
	}

	return &jwtStrategy{
		name:         string(ModeAsymmetricJWT),
		verifier:     v,
		defaultRoles: []string{domain.RoleUser},
	}, nil
}

// LoadRSAPublicKey reads a PEM encoded RSA public key or certificate.
func LoadRSAPublicKey(path string) (*rsa.PublicKey, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: public key path not configured", domain.ErrKeyMaterialUnavailable)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrKeyMaterialUnavailable, path, err)
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrKeyMaterialUnavailable, path, err)
	}
	return key, nil
}
