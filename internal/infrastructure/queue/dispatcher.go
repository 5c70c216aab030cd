package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/workspacehub/workspace-api/internal/api/metrics"
	"github.com/workspacehub/workspace-api/internal/core/domain"
	"github.com/workspacehub/workspace-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	defaultBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// AuditDispatcher persists audit events off the request path. Events are
// sharded by email so one user's decisions are written in order.
type AuditDispatcher struct {
	workers []chan *domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers workers, each with
// a channel of buffer slots. Non-positive values fall back to defaults.
func NewAuditDispatcher(numWorkers, buffer int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &AuditDispatcher{
		workers: make([]chan *domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan *domain.AuditEvent, buffer)
	}
	return d
}

// Start launches the worker goroutines. Workers exit when ctx is cancelled
// or after Stop has drained their channel.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands ev to its worker without blocking. It reports false when the
// event was dropped because the worker is full or the dispatcher is stopped.
func (d *AuditDispatcher) Enqueue(ev *domain.AuditEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		metrics.AuditEventsDroppedTotal.Inc()
		return false
	}

	idx := d.shardIndex(ev.Email)
	select {
	case d.workers[idx] <- ev:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().Str("kind", string(ev.Kind)).Int("worker_id", idx).Msg("audit queue full, event dropped")
		return false
	}
}

// Stop refuses new events, lets the workers drain what is queued and waits
// for them to exit. It is safe to call more than once.
func (d *AuditDispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// shardIndex maps an email deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan *domain.AuditEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.write(ctx, id, ev)
		}
	}
}

func (d *AuditDispatcher) write(ctx context.Context, id int, ev *domain.AuditEvent) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := d.repo.InsertAuditEvent(wctx, ev); err != nil {
		metrics.AuditEventsWrittenTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("kind", string(ev.Kind)).
			Str("email", ev.Email).
			Int("worker_id", id).
			Msg("audit write failed")
		return
	}
	metrics.AuditEventsWrittenTotal.WithLabelValues("ok").Inc()
}
