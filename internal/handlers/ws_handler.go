package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/realtime"
)

// WSHandler upgrades authenticated requests into realtime sessions
type WSHandler struct {
	hub *realtime.Hub
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Serve upgrades the connection and hands it to the hub. The upgrade
// writes its own error response on failure.
func (h *WSHandler) Serve(c *gin.Context) {
	if err := h.hub.ServeWS(c.Writer, c.Request, currentUser(c)); err != nil {
		log.Printf("websocket session for user %s failed: %v", currentUser(c), err)
	}
}
