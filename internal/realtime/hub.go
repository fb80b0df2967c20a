package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/infrastructure/metrics"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/services"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 8
)

// Hub owns the realtime sessions. Each websocket connection is bound to
// one user and gets its own reconciler; the reconciled view is pushed
// to the client as JSON on every change. Nothing is shared across
// sessions, and a user switch on the client side is a new connection,
// so the subscription lifecycle is exactly one per session.
type Hub struct {
	access    services.AccessResolver
	feed      ChangeFeed
	collector *metrics.Collector
	exporter  *metrics.PrometheusExporter
	upgrader  websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// NewHub creates a new Hub. The collector and exporter may be nil.
func NewHub(access services.AccessResolver, feed ChangeFeed, collector *metrics.Collector, exporter *metrics.PrometheusExporter) *Hub {
	return &Hub{
		access:    access,
		feed:      feed,
		collector: collector,
		exporter:  exporter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Origin checks belong to the fronting auth proxy.
				return true
			},
		},
		sessions: make(map[*session]struct{}),
	}
}

type session struct {
	hub        *Hub
	userID     string
	conn       *websocket.Conn
	send       chan []byte
	reconciler *Reconciler
	closeOnce  sync.Once
}

// ServeWS upgrades the request to a websocket and starts the session's
// reconciliation loop. userID must already be authenticated by the
// HTTP layer.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	s := &session{
		hub:    h,
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
	s.reconciler = NewReconciler(userID, h.access, h.feed, s.publish, h.collector, h.exporter)

	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
	if h.exporter != nil {
		h.exporter.SessionStarted()
	}

	go s.writePump()
	go s.readPump()

	// The request context dies when the handler returns, but the
	// hijacked connection lives on; the session's lifetime is managed
	// by teardown, not by the request.
	if err := s.reconciler.Start(context.Background()); err != nil {
		s.teardown()
		return err
	}

	log.Printf("realtime session started for user %s", userID)
	return nil
}

// Close tears down every active session
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.teardown()
	}
}

// publish is the session's Publisher: it serializes the view and
// enqueues it for the write pump. A slow client drops intermediate
// views rather than blocking the reconciler; the newest view always
// follows.
func (s *session) publish(view *entities.EffectiveView) {
	payload, err := json.Marshal(view)
	if err != nil {
		log.Printf("failed to marshal view for user %s: %v", s.userID, err)
		return
	}

	// publish is only ever called from the session's reconciler worker,
	// so there is a single producer: dropping one queued view always
	// frees a slot, and the loop ends after at most one extra round
	// even when the write pump consumes concurrently.
	for {
		select {
		case s.send <- payload:
			return
		default:
		}
		select {
		case <-s.send:
		default:
		}
	}
}

func (s *session) teardown() {
	s.closeOnce.Do(func() {
		s.reconciler.Close()

		s.hub.mu.Lock()
		delete(s.hub.sessions, s)
		s.hub.mu.Unlock()
		if s.hub.exporter != nil {
			s.hub.exporter.SessionEnded()
		}

		close(s.send)
		s.conn.Close()
		log.Printf("realtime session ended for user %s", s.userID)
	})
}

func (s *session) readPump() {
	defer s.teardown()

	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Clients never send application messages; the read loop exists to
	// notice disconnects and answer pings.
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			if !ok {
				s.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
