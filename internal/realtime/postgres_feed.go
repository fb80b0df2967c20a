package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
)

// notifyChannel is the pg_notify channel the item and grant table
// triggers publish to. The payload is {"event": ..., "table": ...};
// nothing beyond table identity is trusted.
const notifyChannel = "table_changes"

// ErrFeedClosed is returned when subscribing to a feed that has shut down.
var ErrFeedClosed = errors.New("change feed closed")

// PostgresFeed is a ChangeFeed backed by PostgreSQL LISTEN/NOTIFY via
// pq.Listener. One listener connection serves all subscribers.
type PostgresFeed struct {
	*broadcaster
	listener *pq.Listener
	done     chan struct{}
}

// NewPostgresFeed opens a listener connection and starts dispatching
// notifications to subscribers.
func NewPostgresFeed(dsn string) (*PostgresFeed, error) {
	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("change feed listener event %v: %v", ev, err)
		}
	})

	if err := listener.Listen(notifyChannel); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to listen on %s: %w", notifyChannel, err)
	}

	feed := &PostgresFeed{
		broadcaster: newBroadcaster(),
		listener:    listener,
		done:        make(chan struct{}),
	}
	go feed.run()

	return feed, nil
}

func (f *PostgresFeed) run() {
	defer close(f.done)

	for notification := range f.listener.Notify {
		// nil notifications signal a reconnect; the connection may
		// have missed events, so wake every subscriber to re-resolve.
		if notification == nil {
			f.broadcast(entities.ChangeEvent{Event: entities.EventUpdate, Table: entities.TableItems})
			f.broadcast(entities.ChangeEvent{Event: entities.EventUpdate, Table: entities.TableSharedItems})
			continue
		}

		var event entities.ChangeEvent
		if err := json.Unmarshal([]byte(notification.Extra), &event); err != nil {
			log.Printf("change feed: unparseable payload %q: %v", notification.Extra, err)
			continue
		}
		if !event.Relevant() {
			continue
		}

		f.broadcast(event)
	}
}

// Subscribe registers a new subscriber
func (f *PostgresFeed) Subscribe(ctx context.Context) (*Subscription, error) {
	return f.subscribe(ctx)
}

// Close stops listening and cancels all subscriptions
func (f *PostgresFeed) Close() error {
	err := f.listener.Close()
	<-f.done
	f.close()
	return err
}
