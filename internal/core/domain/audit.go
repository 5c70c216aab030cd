package domain

import "time"

// AuditKind labels an auth decision in the audit trail.
type AuditKind string

const (
	AuditAuthenticated AuditKind = "authenticated"
	AuditRejected      AuditKind = "rejected"
	AuditAdminGranted  AuditKind = "admin_granted"
	AuditAdminDenied   AuditKind = "admin_denied"
)

// AuditEvent records one auth decision.
type AuditEvent struct {
	Kind      AuditKind `json:"kind" bson:"kind"`
	Strategy  string    `json:"strategy,omitempty" bson:"strategy,omitempty"`
	Email     string    `json:"email,omitempty" bson:"email,omitempty"`
	Admin     bool      `json:"admin" bson:"admin"`
	Reason    string    `json:"reason,omitempty" bson:"reason,omitempty"`
	Method    string    `json:"method" bson:"method"`
	Path      string    `json:"path" bson:"path"`
	RemoteIP  string    `json:"remote_ip,omitempty" bson:"remote_ip,omitempty"`
	RequestID string    `json:"request_id,omitempty" bson:"request_id,omitempty"`
	At        time.Time `json:"at" bson:"at"`
}
