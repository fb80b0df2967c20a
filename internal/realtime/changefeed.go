package realtime

import (
	"context"
	"sync"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
)

// subscriberBuffer bounds each subscriber's event queue. The queue only
// needs to hold a wake-up signal: a full buffer means a reconciliation
// trigger is already pending, so further events may be dropped without
// losing information.
const subscriberBuffer = 16

// Subscription is a cancellable handle on a change feed. Events arrive
// on C until Cancel is called or the feed shuts down.
type Subscription struct {
	C <-chan entities.ChangeEvent

	cancel func()
	once   sync.Once
}

// Cancel detaches the subscription and closes C. Safe to call more
// than once.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// ChangeFeed delivers table-granular mutation notifications for the
// item and grant relations.
type ChangeFeed interface {
	// Subscribe registers a new subscriber. The subscription ends when
	// its Cancel is called or ctx is done.
	Subscribe(ctx context.Context) (*Subscription, error)

	// Close shuts the feed down and cancels all subscriptions
	Close() error
}

// broadcaster implements subscriber fan-out shared by the feed
// implementations.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan entities.ChangeEvent
	nextID int
	closed bool
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan entities.ChangeEvent)}
}

func (b *broadcaster) subscribe(ctx context.Context) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrFeedClosed
	}

	id := b.nextID
	b.nextID++
	ch := make(chan entities.ChangeEvent, subscriberBuffer)
	b.subs[id] = ch

	stop := make(chan struct{})
	sub := &Subscription{C: ch}
	sub.cancel = func() {
		close(stop)
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}

	if ctx != nil {
		// stop releases this goroutine when the handle is cancelled
		// before the context ends.
		go func() {
			select {
			case <-ctx.Done():
				sub.Cancel()
			case <-stop:
			}
		}()
	}

	return sub, nil
}

// broadcast delivers an event to every subscriber. A subscriber whose
// queue is full already has a pending wake-up, so the event is dropped
// for it.
func (b *broadcaster) broadcast(event entities.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (b *broadcaster) close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// MemoryFeed is an in-process ChangeFeed used by tests and as a local
// bus for single-node deployments.
type MemoryFeed struct {
	*broadcaster
}

// NewMemoryFeed creates a new in-memory change feed
func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{broadcaster: newBroadcaster()}
}

// Subscribe registers a new subscriber
func (f *MemoryFeed) Subscribe(ctx context.Context) (*Subscription, error) {
	return f.subscribe(ctx)
}

// Publish delivers an event to all subscribers
func (f *MemoryFeed) Publish(event entities.ChangeEvent) {
	f.broadcast(event)
}

// Close shuts the feed down
func (f *MemoryFeed) Close() error {
	f.close()
	return nil
}
