package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/workspacehub/workspace-api/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []*domain.AuditEvent
	err    error
}

func (r *recordingRepo) InsertAuditEvent(_ context.Context, ev *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestAuditDispatcher_WritesEverythingBeforeStop(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(3, 64, repo, zerolog.Nop())
	d.Start(context.Background())

	emails := []string{"a@x.io", "b@x.io", "c@x.io", "d@x.io"}
	for i := 0; i < 40; i++ {
		if !d.Enqueue(&domain.AuditEvent{Kind: domain.AuditAuthenticated, Email: emails[i%len(emails)]}) {
			t.Fatalf("event %d unexpectedly dropped", i)
		}
	}
	d.Stop()

	if got := repo.len(); got != 40 {
		t.Fatalf("expected 40 events written, got %d", got)
	}
}

func TestAuditDispatcher_PerEmailOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(4, 64, repo, zerolog.Nop())
	d.Start(context.Background())

	kinds := []domain.AuditKind{domain.AuditAuthenticated, domain.AuditAdminDenied, domain.AuditRejected}
	for _, k := range kinds {
		d.Enqueue(&domain.AuditEvent{Kind: k, Email: "alice@example.com"})
	}
	d.Stop()

	var got []domain.AuditKind
	for _, ev := range repo.events {
		if ev.Email == "alice@example.com" {
			got = append(got, ev.Kind)
		}
	}
	if len(got) != len(kinds) {
		t.Fatalf("expected %d events, got %d", len(kinds), len(got))
	}
	for i := range kinds {
		if got[i] != kinds[i] {
			t.Fatalf("event %d: expected %s, got %s", i, kinds[i], got[i])
		}
	}
}

func TestAuditDispatcher_DropsWhenFull(t *testing.T) {
	d := NewAuditDispatcher(1, 1, &recordingRepo{}, zerolog.Nop())

	// Not started: the single slot fills and the next event is dropped.
	if !d.Enqueue(&domain.AuditEvent{Email: "a@x.io"}) {
		t.Fatalf("first event should be queued")
	}
	if d.Enqueue(&domain.AuditEvent{Email: "a@x.io"}) {
		t.Fatalf("second event should be dropped")
	}
}

func TestAuditDispatcher_EnqueueAfterStop(t *testing.T) {
	d := NewAuditDispatcher(1, 4, &recordingRepo{}, zerolog.Nop())
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	if d.Enqueue(&domain.AuditEvent{Email: "a@x.io"}) {
		t.Fatalf("enqueue after stop should be refused")
	}
}

func TestAuditDispatcher_RepositoryErrorsDoNotStopWorkers(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo down")}
	d := NewAuditDispatcher(1, 8, repo, zerolog.Nop())
	d.Start(context.Background())

	for i := 0; i < 3; i++ {
		d.Enqueue(&domain.AuditEvent{Email: "a@x.io"})
	}
	d.Stop()

	if got := repo.len(); got != 0 {
		t.Fatalf("expected no successful writes, got %d", got)
	}
}
