package ports

import (
	"context"

	"github.com/workspacehub/workspace-api/internal/core/domain"
)

// AuditRepository persists auth decisions.
type AuditRepository interface {
	InsertAuditEvent(ctx context.Context, event *domain.AuditEvent) error
}
