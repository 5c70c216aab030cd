package service

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/workspacehub/workspace-api/internal/core/domain"
)

// AllowList is an immutable set of admin emails.
type AllowList struct {
	emails map[string]struct{}
}

// NewAllowList normalises emails into a set. Blank entries are skipped.
func NewAllowList(emails ...string) *AllowList {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if n := domain.NormalizeEmail(e); n != "" {
			set[n] = struct{}{}
		}
	}
	return &AllowList{emails: set}
}

// Contains reports whether email is listed, ignoring case and surrounding space.
func (l *AllowList) Contains(email string) bool {
	if l == nil {
		return false
	}
	_, ok := l.emails[domain.NormalizeEmail(email)]
	return ok
}

// Len returns the number of listed emails.
func (l *AllowList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.emails)
}

type adminFile struct {
	Admins []string `json:"admins"`
}

// LoadAllowList reads {"admins": [...]} from path. A missing file yields an
// error wrapping fs.ErrNotExist so the caller can decide to continue with an
// empty list.
func LoadAllowList(path string) (*AllowList, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return NewAllowList(), fmt.Errorf("read admin allow-list: %w", err)
	}
	var f adminFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return NewAllowList(), fmt.Errorf("parse admin allow-list %s: %w", path, err)
	}
	return NewAllowList(f.Admins...), nil
}

// AdminResolver elevates identities found in the allow-list.
type AdminResolver struct {
	allow *AllowList
}

func NewAdminResolver(allow *AllowList) *AdminResolver {
	if allow == nil {
		allow = NewAllowList()
	}
	return &AdminResolver{allow: allow}
}

// Resolve adds the admin role to listed identities and always sets IsAdmin
// from the resulting role set. Unlisted identities keep their roles.
func (r *AdminResolver) Resolve(id domain.Identity) domain.Identity {
	if r.allow.Contains(id.Email) {
		id = id.WithRole(domain.RoleAdmin)
	}
	id.IsAdmin = id.HasRole(domain.RoleAdmin)
	return id
}
