package domain

import "errors"

// Authentication failure kinds. Each is reported distinctly by the token
// verifier; the HTTP layer collapses most of them into a generic message.
var (
	ErrMissingCredentials     = errors.New("missing credentials")
	ErrMalformedToken         = errors.New("malformed token")
	ErrInvalidSignature       = errors.New("invalid token signature")
	ErrAlgorithmMismatch      = errors.New("signing algorithm mismatch")
	ErrTokenExpired           = errors.New("token expired")
	ErrTokenNotActive         = errors.New("token not yet valid")
	ErrIssuerMismatch         = errors.New("issuer mismatch")
	ErrAudienceMismatch       = errors.New("audience mismatch")
	ErrClaimMissing           = errors.New("missing required claim")
	ErrKeyMaterialUnavailable = errors.New("key material unavailable")
)

// Authorization failures.
var (
	ErrInsufficientRole = errors.New("insufficient role")
	ErrForbidden        = errors.New("access forbidden")
)

// AuthenticationError is returned by every auth strategy. Reason is meant for
// logs; Err carries the failure kind for errors.Is.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Reason == "" {
		return "authentication failed: " + e.Err.Error()
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// NewAuthenticationError wraps kind with a human-readable reason.
func NewAuthenticationError(kind error, reason string) *AuthenticationError {
	return &AuthenticationError{Reason: reason, Err: kind}
}

// IsAuthenticationFailure reports whether err belongs to the 401 group.
func IsAuthenticationFailure(err error) bool {
	for _, kind := range []error{
		ErrMissingCredentials,
		ErrMalformedToken,
		ErrInvalidSignature,
		ErrAlgorithmMismatch,
		ErrTokenExpired,
		ErrTokenNotActive,
		ErrIssuerMismatch,
		ErrAudienceMismatch,
		ErrClaimMissing,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	var ae *AuthenticationError
	return errors.As(err, &ae)
}
