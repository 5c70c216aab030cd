package domain

import (
	"context"
	"strings"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the authenticated principal for a single request.
type Identity struct {
	Email   string   `json:"email"`
	Name    string   `json:"name,omitempty"`
	Roles   []string `json:"roles"`
	IsAdmin bool     `json:"isAdmin"`
}

// NormalizeEmail lowercases and trims an address for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasRole reports whether role is present in the identity's role set.
func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// WithRole returns a copy of the identity with role added. Adding a role that
// is already present returns an equal copy.
func (i Identity) WithRole(role string) Identity {
	out := i.clone()
	if !out.HasRole(role) {
		out.Roles = append(out.Roles, role)
	}
	return out
}

func (i Identity) clone() Identity {
	out := i
	out.Roles = append([]string(nil), i.Roles...)
	return out
}

// dedupeRoles drops empty and repeated role names, keeping first occurrence.
func dedupeRoles(roles []string) []string {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// NewIdentity builds an identity with a de-duplicated role set. IsAdmin is
// derived from the roles.
func NewIdentity(email, name string, roles []string) Identity {
	id := Identity{
		Email: strings.TrimSpace(email),
		Name:  strings.TrimSpace(name),
		Roles: dedupeRoles(roles),
	}
	id.IsAdmin = id.HasRole(RoleAdmin)
	return id
}

type identityCtxKey struct{}

// WithIdentity attaches id to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext returns the identity attached by the auth middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(Identity)
	return id, ok
}
