package middleware

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
)

type sliceSink struct {
	events []*domain.AuditEvent
}

func (s *sliceSink) Enqueue(ev *domain.AuditEvent) bool {
	s.events = append(s.events, ev)
	return true
}

func TestAuditObserver_Authenticated(t *testing.T) {
	var buf bytes.Buffer
	sink := &sliceSink{}
	obs := NewAuditObserver(zerolog.New(&buf), sink)

	admin := domain.NewIdentity("boss@example.com", "", []string{"user", "admin"})
	obs.Authenticated(context.Background(), ports.AuthEvent{Strategy: "mock", Identity: &admin, Path: "/admin/config"})

	if !strings.Contains(buf.String(), "admin access granted") {
		t.Fatalf("expected admin audit line, got %s", buf.String())
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.Kind != domain.AuditAuthenticated || ev.Email != "boss@example.com" || !ev.Admin {
		t.Fatalf("unexpected audit event: %+v", ev)
	}

	buf.Reset()
	user := domain.NewIdentity("alice@example.com", "", []string{"user"})
	obs.Authenticated(context.Background(), ports.AuthEvent{Strategy: "mock", Identity: &user})
	if strings.Contains(buf.String(), "admin access granted") {
		t.Fatalf("standard user logged as admin: %s", buf.String())
	}
}

func TestAuditObserver_RejectedAndDenied(t *testing.T) {
	var buf bytes.Buffer
	sink := &sliceSink{}
	obs := NewAuditObserver(zerolog.New(&buf), sink)

	obs.Rejected(context.Background(), ports.AuthEvent{
		Strategy: "symmetric-jwt",
		Err:      domain.NewAuthenticationError(domain.ErrTokenExpired, "expired"),
	})
	user := domain.NewIdentity("alice@example.com", "", []string{"user"})
	obs.AdminDecision(context.Background(), ports.AuthEvent{Identity: &user, Err: domain.ErrInsufficientRole}, false)

	if len(sink.events) != 2 {
		t.Fatalf("expected two audit events, got %d", len(sink.events))
	}
	if sink.events[0].Kind != domain.AuditRejected || sink.events[0].Reason != "token_expired" {
		t.Fatalf("unexpected rejection event: %+v", sink.events[0])
	}
	if sink.events[1].Kind != domain.AuditAdminDenied || sink.events[1].Email != "alice@example.com" {
		t.Fatalf("unexpected denial event: %+v", sink.events[1])
	}
	if !strings.Contains(buf.String(), "admin access denied") {
		t.Fatalf("expected denial log line, got %s", buf.String())
	}
}

func TestAuditObserver_NilSink(t *testing.T) {
	obs := NewAuditObserver(zerolog.Nop(), nil)
	obs.Rejected(context.Background(), ports.AuthEvent{Err: domain.ErrMissingCredentials})
	obs.AdminDecision(context.Background(), ports.AuthEvent{}, true)
}
