package ports

import (
	"context"

	"github.com/workspacehub/workspace-api/internal/core/domain"
)

// AuthStrategy turns a raw bearer token into an identity. Failures are
// *domain.AuthenticationError values.
type AuthStrategy interface {
	Name() string
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

// AdminResolver augments an identity with privileges from local config.
type AdminResolver interface {
	Resolve(id domain.Identity) domain.Identity
}

// AuthEvent describes one auth decision for observers.
type AuthEvent struct {
	Strategy  string
	Identity  *domain.Identity
	Err       error
	Method    string
	Path      string
	RemoteIP  string
	RequestID string
}

// AuthObserver receives auth decisions. Implementations must not block.
type AuthObserver interface {
	Authenticated(ctx context.Context, ev AuthEvent)
	Rejected(ctx context.Context, ev AuthEvent)
	AdminDecision(ctx context.Context, ev AuthEvent, granted bool)
}

// NopAuthObserver discards every event.
type NopAuthObserver struct{}

func (NopAuthObserver) Authenticated(context.Context, AuthEvent)       {}
func (NopAuthObserver) Rejected(context.Context, AuthEvent)            {}
func (NopAuthObserver) AdminDecision(context.Context, AuthEvent, bool) {}
