package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/workspacehub/workspace-api/internal/api/metrics"
	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
)

// AuditSink accepts audit events without blocking.
type AuditSink interface {
	Enqueue(ev *domain.AuditEvent) bool
}

// AuditObserver logs auth decisions, counts them and forwards them to an
// optional sink.
type AuditObserver struct {
	log  zerolog.Logger
	sink AuditSink
	now  func() time.Time
}

var _ ports.AuthObserver = (*AuditObserver)(nil)

// NewAuditObserver returns an observer writing to log. sink may be nil.
func NewAuditObserver(log zerolog.Logger, sink AuditSink) *AuditObserver {
	return &AuditObserver{log: log, sink: sink, now: time.Now}
}

func (o *AuditObserver) Authenticated(_ context.Context, ev ports.AuthEvent) {
	metrics.AuthAttemptsTotal.WithLabelValues(ev.Strategy, "success").Inc()

	entry := o.log.Info()
	msg := "authenticated"
	if ev.Identity != nil && ev.Identity.IsAdmin {
		msg = "admin access granted"
	}
	entry.Str("strategy", ev.Strategy).
		Str("email", emailOf(ev)).
		Bool("admin", ev.Identity != nil && ev.Identity.IsAdmin).
		Str("path", ev.Path).
		Str("request_id", ev.RequestID).
		Msg(msg)

	o.emit(domain.AuditAuthenticated, ev)
}

func (o *AuditObserver) Rejected(_ context.Context, ev ports.AuthEvent) {
	reason := FailureReason(ev.Err)
	metrics.AuthAttemptsTotal.WithLabelValues(ev.Strategy, "failure").Inc()
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()

	o.log.Warn().
		Err(ev.Err).
		Str("strategy", ev.Strategy).
		Str("reason", reason).
		Str("method", ev.Method).
		Str("path", ev.Path).
		Str("remote_ip", ev.RemoteIP).
		Str("request_id", ev.RequestID).
		Msg("authentication rejected")

	o.emit(domain.AuditRejected, ev)
}

func (o *AuditObserver) AdminDecision(_ context.Context, ev ports.AuthEvent, granted bool) {
	if granted {
		metrics.AdminGuardDecisionsTotal.WithLabelValues("granted").Inc()
		o.emit(domain.AuditAdminGranted, ev)
		return
	}

	metrics.AdminGuardDecisionsTotal.WithLabelValues("denied").Inc()
	o.log.Warn().
		Str("email", emailOf(ev)).
		Str("method", ev.Method).
		Str("path", ev.Path).
		Str("request_id", ev.RequestID).
		Msg("admin access denied")
	o.emit(domain.AuditAdminDenied, ev)
}

func (o *AuditObserver) emit(kind domain.AuditKind, ev ports.AuthEvent) {
	if o.sink == nil {
		return
	}
	rec := &domain.AuditEvent{
		Kind:      kind,
		Strategy:  ev.Strategy,
		Email:     emailOf(ev),
		Admin:     ev.Identity != nil && ev.Identity.IsAdmin,
		Method:    ev.Method,
		Path:      ev.Path,
		RemoteIP:  ev.RemoteIP,
		RequestID: ev.RequestID,
		At:        o.now().UTC(),
	}
	if ev.Err != nil {
		rec.Reason = FailureReason(ev.Err)
	}
	o.sink.Enqueue(rec)
}

func emailOf(ev ports.AuthEvent) string {
	if ev.Identity == nil {
		return ""
	}
	return ev.Identity.Email
}

// FailureReason maps an auth error to a stable, low-cardinality label.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, domain.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, domain.ErrTokenNotActive):
		return "token_not_active"
	case errors.Is(err, domain.ErrIssuerMismatch):
		return "issuer_mismatch"
	case errors.Is(err, domain.ErrAudienceMismatch):
		return "audience_mismatch"
	case errors.Is(err, domain.ErrAlgorithmMismatch):
		return "algorithm_mismatch"
	case errors.Is(err, domain.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, domain.ErrClaimMissing):
		return "claim_missing"
	case errors.Is(err, domain.ErrMalformedToken):
		return "malformed_token"
	case errors.Is(err, domain.ErrInsufficientRole):
		return "insufficient_role"
	case errors.Is(err, domain.ErrForbidden):
		return "no_identity"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "other"
	}
}
