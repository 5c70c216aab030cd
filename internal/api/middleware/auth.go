package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
)

// IdentityKey is the echo context key holding the authenticated domain.Identity.
const IdentityKey = "identity"

const (
	msgUnauthorized = "Unauthorized"
	msgTokenExpired = "Token expired"
	msgInvalidToken = "Invalid token"
)

// Authenticate extracts the bearer token, verifies it with strategy, lets
// resolver add locally granted roles and attaches the resulting identity to
// both the echo context and the request context.
func Authenticate(strategy ports.AuthStrategy, resolver ports.AdminResolver, observer ports.AuthObserver) echo.MiddlewareFunc {
	if observer == nil {
		observer = ports.NopAuthObserver{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := req.Context()
			ev := eventFor(c, strategy.Name())

			token, err := bearerToken(req.Header.Get(echo.HeaderAuthorization))
			if err != nil {
				ev.Err = err
				observer.Rejected(ctx, ev)
				return unauthorized(c, msgUnauthorized, err)
			}

			id, err := strategy.Authenticate(ctx, token)
			if err != nil {
				// Client went away: nothing to answer, nothing to audit.
				if errors.Is(err, context.Canceled) {
					return err
				}
				ev.Err = err
				observer.Rejected(ctx, ev)
				if errors.Is(err, domain.ErrTokenExpired) {
					return unauthorized(c, msgTokenExpired, err)
				}
				return unauthorized(c, msgInvalidToken, err)
			}

			if resolver != nil {
				id = resolver.Resolve(id)
			}

			ev.Identity = &id
			observer.Authenticated(ctx, ev)

			c.Set(IdentityKey, id)
			c.SetRequest(req.WithContext(domain.WithIdentity(ctx, id)))

			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by Authenticate.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	if id, ok := c.Get(IdentityKey).(domain.Identity); ok {
		return id, true
	}
	return domain.IdentityFromContext(c.Request().Context())
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.ErrMissingCredentials
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", domain.ErrMissingCredentials
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", domain.ErrMissingCredentials
	}
	return token, nil
}

func unauthorized(c echo.Context, msg string, cause error) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(cause)
}

func eventFor(c echo.Context, strategy string) ports.AuthEvent {
	req := c.Request()
	return ports.AuthEvent{
		Strategy:  strategy,
		Method:    req.Method,
		Path:      req.URL.Path,
		RemoteIP:  c.RealIP(),
		RequestID: requestID(c),
	}
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
