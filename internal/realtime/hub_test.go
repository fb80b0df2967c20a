package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
)

func viewPayload(t *testing.T, payload []byte) *entities.EffectiveView {
	t.Helper()
	var view entities.EffectiveView
	if err := json.Unmarshal(payload, &view); err != nil {
		t.Fatalf("failed to decode published view: %v", err)
	}
	return &view
}

func TestSessionPublish_KeepsNewestView(t *testing.T) {
	s := &session{userID: "alice", send: make(chan []byte, 1)}

	for i := 0; i < 5; i++ {
		s.publish(&entities.EffectiveView{
			UserID: "alice",
			Owned:  []entities.Item{{ID: fmt.Sprintf("i%d", i)}},
		})
	}

	// Older views are dropped; exactly the newest one stays queued.
	var queued [][]byte
	for {
		select {
		case payload := <-s.send:
			queued = append(queued, payload)
			continue
		default:
		}
		break
	}

	if len(queued) != 1 {
		t.Fatalf("queued views = %d, want 1", len(queued))
	}
	view := viewPayload(t, queued[0])
	if len(view.Owned) != 1 || view.Owned[0].ID != "i4" {
		t.Errorf("queued view = %+v, want the newest (i4)", view)
	}
}

// A consumer racing the queue drain must never cost the session its
// newest view: whatever interleaving happens, the last delivered
// payload is the last published one.
func TestSessionPublish_NewestSurvivesConcurrentConsumer(t *testing.T) {
	s := &session{userID: "alice", send: make(chan []byte, 1)}

	var mu sync.Mutex
	var received [][]byte
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case payload := <-s.send:
				mu.Lock()
				received = append(received, payload)
				mu.Unlock()
			case <-stop:
				return
			}
		}
	}()

	const total = 200
	for i := 0; i < total; i++ {
		s.publish(&entities.EffectiveView{
			UserID: "alice",
			Owned:  []entities.Item{{ID: fmt.Sprintf("i%d", i)}},
		})
	}

	want := fmt.Sprintf("i%d", total-1)
	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		if len(received) == 0 {
			return false
		}
		view := viewPayload(t, received[len(received)-1])
		return len(view.Owned) == 1 && view.Owned[0].ID == want
	})

	close(stop)
	<-done
}
