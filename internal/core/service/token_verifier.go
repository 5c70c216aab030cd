package service

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/workspacehub/workspace-api/internal/core/domain"
)

// IdentityClaims is the token payload understood by the strategies.
type IdentityClaims struct {
	Email string   `json:"email,omitempty"`
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// VerifierConfig pins a verifier to one algorithm and key.
type VerifierConfig struct {
	Algorithm string
	// Key is a []byte secret for HMAC, or the matching public key type.
	Key      any
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// TokenVerifier validates signed tokens against a single algorithm and key.
type TokenVerifier struct {
	method jwt.SigningMethod
	key    any
	parser *jwt.Parser
}

// NewTokenVerifier checks that the algorithm is usable and that the key type
// belongs to its family.
func NewTokenVerifier(cfg VerifierConfig) (*TokenVerifier, error) {
	alg := strings.TrimSpace(cfg.Algorithm)
	if alg == "" || strings.EqualFold(alg, "none") {
		return nil, fmt.Errorf("%w: algorithm %q is not allowed", domain.ErrAlgorithmMismatch, alg)
	}
	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("%w: unknown algorithm %q", domain.ErrAlgorithmMismatch, alg)
	}
	if err := checkKeyFamily(method, cfg.Key); err != nil {
		return nil, err
	}

	opts := []jwt.ParserOption{jwt.WithLeeway(cfg.Leeway)}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &TokenVerifier{
		method: method,
		key:    cfg.Key,
		parser: jwt.NewParser(opts...),
	}, nil
}

// Algorithm returns the only algorithm this verifier accepts.
func (v *TokenVerifier) Algorithm() string {
	return v.method.Alg()
}

// Verify parses and validates tokenString. The returned error is one of the
// domain token errors.
func (v *TokenVerifier) Verify(tokenString string) (*IdentityClaims, error) {
	claims := &IdentityClaims{}
	tkn, err := v.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// The header alg must be exactly the configured one; this also rules
		// out "none" and HS-with-public-key confusion.
		if token.Method == nil || token.Method.Alg() != v.method.Alg() {
			return nil, domain.ErrAlgorithmMismatch
		}
		return v.key, nil
	})
	if err != nil {
		return nil, classifyJWTError(err)
	}
	if !tkn.Valid {
		return nil, domain.ErrInvalidSignature
	}
	return claims, nil
}

// classifyJWTError maps jwt/v5 errors onto the domain taxonomy. Claim
// validation joins every failed check, so issuer and audience are tested
// before expiry.
func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, domain.ErrAlgorithmMismatch):
		return domain.ErrAlgorithmMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrAlgorithmMismatch
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return domain.ErrIssuerMismatch
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return domain.ErrAudienceMismatch
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return domain.ErrTokenNotActive
	default:
		return domain.ErrMalformedToken
	}
}

func checkKeyFamily(method jwt.SigningMethod, key any) error {
	ok := false
	switch method.(type) {
	case *jwt.SigningMethodHMAC:
		b, isBytes := key.([]byte)
		ok = isBytes && len(b) > 0
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		_, ok = key.(*rsa.PublicKey)
	case *jwt.SigningMethodECDSA:
		_, ok = key.(*ecdsa.PublicKey)
	case *jwt.SigningMethodEd25519:
		_, ok = key.(ed25519.PublicKey)
	}
	if !ok {
		return fmt.Errorf("%w: key of type %T cannot verify %s", domain.ErrKeyMaterialUnavailable, key, method.Alg())
	}
	return nil
}
