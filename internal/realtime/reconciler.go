package realtime

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/infrastructure/metrics"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/services"
)

// State is the reconciler's subscription lifecycle state.
type State int32

const (
	StateDisconnected State = iota
	StateSubscribing
	StateActive
)

// String returns a string representation of the state
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateSubscribing:
		return "subscribing"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Publisher receives every reconciled view for one session.
type Publisher func(*entities.EffectiveView)

// Reconciler keeps one user session's effective view synchronized. It
// subscribes to the change feed and, on any event touching the item or
// grant relations, re-resolves the full owned+shared view and publishes
// it. Events are table-granular, so no ownership filtering happens at
// the subscription layer.
//
// Overlapping triggers are coalesced: a single worker drains a
// buffered-one trigger channel, so a burst of events during an
// in-flight pass collapses into exactly one follow-up pass, and a
// generation counter discards any pass whose reads predate a newer
// trigger. A published view is therefore never overwritten by a staler
// one, and nothing publishes after Close.
type Reconciler struct {
	userID    string
	access    services.AccessResolver
	feed      ChangeFeed
	publish   Publisher
	collector *metrics.Collector          // optional
	exporter  *metrics.PrometheusExporter // optional

	state   atomic.Int32
	gen     atomic.Uint64
	trigger chan struct{}

	cancel    context.CancelFunc
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewReconciler creates a reconciler for one user session. The
// collector and exporter may be nil.
func NewReconciler(userID string, access services.AccessResolver, feed ChangeFeed, publish Publisher, collector *metrics.Collector, exporter *metrics.PrometheusExporter) *Reconciler {
	r := &Reconciler{
		userID:    userID,
		access:    access,
		feed:      feed,
		publish:   publish,
		collector: collector,
		exporter:  exporter,
		trigger:   make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	r.state.Store(int32(StateDisconnected))
	return r
}

// State returns the current lifecycle state
func (r *Reconciler) State() State {
	return State(r.state.Load())
}

// Start subscribes to the change feed and runs an initial
// reconciliation pass. A failed subscribe may be retried; once running
// or closed, further Start calls fail. A user switch is a new
// Reconciler, never a reused subscription.
func (r *Reconciler) Start(ctx context.Context) error {
	if r.closed.Load() {
		return fmt.Errorf("reconciler for user %s is closed", r.userID)
	}
	if !r.state.CompareAndSwap(int32(StateDisconnected), int32(StateSubscribing)) {
		return fmt.Errorf("reconciler for user %s already started (state %s)", r.userID, r.State())
	}

	// A failed subscribe leaves the reconciler Disconnected so the
	// session can retry; the worker done channel and any queued
	// trigger belong to that earlier attempt and must be reset.
	r.done = make(chan struct{})
	select {
	case <-r.trigger:
	default:
	}

	ctx, r.cancel = context.WithCancel(ctx)

	sub, err := r.feed.Subscribe(ctx)
	if err != nil {
		r.cancel()
		r.state.Store(int32(StateDisconnected))
		close(r.done)
		return fmt.Errorf("failed to subscribe to change feed: %w", err)
	}

	r.state.Store(int32(StateActive))

	go r.consume(sub)
	go r.worker(ctx, sub)

	r.Trigger()
	return nil
}

// Trigger requests a reconciliation pass. Bursts collapse into one
// pending pass.
func (r *Reconciler) Trigger() {
	r.gen.Add(1)
	select {
	case r.trigger <- struct{}{}:
	default:
		if r.collector != nil {
			r.collector.RecordCoalesced()
		}
		if r.exporter != nil {
			r.exporter.RecordCoalesced()
		}
	}
}

// consume turns feed events into triggers. Every event means
// "something changed, re-resolve"; payload content is never inspected
// beyond table relevance.
func (r *Reconciler) consume(sub *Subscription) {
	for event := range sub.C {
		if !event.Relevant() {
			continue
		}
		r.Trigger()
	}
}

func (r *Reconciler) worker(ctx context.Context, sub *Subscription) {
	defer close(r.done)
	defer sub.Cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.trigger:
		}

		start := time.Now()
		gen := r.gen.Load()

		view, err := r.access.Resolve(ctx, r.userID)
		if r.collector != nil {
			r.collector.RecordPass(time.Since(start).Seconds())
		}
		if r.exporter != nil {
			r.exporter.RecordPass(time.Since(start).Seconds())
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if r.collector != nil {
				r.collector.RecordPassError()
			}
			if r.exporter != nil {
				r.exporter.RecordPassError()
			}
			log.Printf("reconciliation for user %s failed: %v", r.userID, err)
			continue
		}

		// A newer trigger arrived while this pass was reading: its
		// result may be stale, and the pending trigger guarantees a
		// fresh pass, so discard this one.
		if r.gen.Load() != gen {
			if r.collector != nil {
				r.collector.RecordStaleDiscard()
			}
			if r.exporter != nil {
				r.exporter.RecordStaleDiscard()
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
		r.publish(view)
	}
}

// Close tears the session down: the subscription is cancelled, any
// in-flight pass is discarded and no view is published afterwards.
func (r *Reconciler) Close() {
	r.closed.Store(true)
	r.closeOnce.Do(func() {
		if r.cancel != nil {
			r.cancel()
			<-r.done
		}
		r.state.Store(int32(StateDisconnected))
	})
}
