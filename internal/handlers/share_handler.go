package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/infrastructure/metrics"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/services"
)

// ShareHandler serves grant creation
type ShareHandler struct {
	shares   *services.ShareService
	exporter *metrics.PrometheusExporter // optional
}

// NewShareHandler creates a new ShareHandler
func NewShareHandler(shares *services.ShareService, exporter *metrics.PrometheusExporter) *ShareHandler {
	return &ShareHandler{shares: shares, exporter: exporter}
}

type shareRequest struct {
	Email   string `json:"email" binding:"required"`
	CanEdit bool   `json:"can_edit"`
}

// Share grants another user access to an item the requester owns
func (h *ShareHandler) Share(c *gin.Context) {
	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	grant, err := h.shares.Grant(c.Request.Context(), currentUser(c), c.Param("id"), req.Email, req.CanEdit)
	if err != nil {
		if h.exporter != nil {
			h.exporter.RecordGrantRejected(rejectionReason(err))
		}
		respondError(c, err)
		return
	}

	if h.exporter != nil {
		h.exporter.RecordGrantCreated()
	}
	c.JSON(http.StatusCreated, grant)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, entities.ErrNotFound):
		return "not_found"
	case errors.Is(err, entities.ErrSelfShare):
		return "self_share"
	case errors.Is(err, entities.ErrDuplicateGrant):
		return "duplicate"
	case errors.Is(err, entities.ErrUnauthorized):
		return "unauthorized"
	default:
		return "other"
	}
}
