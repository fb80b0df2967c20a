package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/services"
)

// ItemHandler serves item CRUD and the effective view
type ItemHandler struct {
	items  *services.ItemService
	access services.AccessResolver
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(items *services.ItemService, access services.AccessResolver) *ItemHandler {
	return &ItemHandler{items: items, access: access}
}

type itemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// List returns the requester's full effective view: owned items plus
// items shared with them, each tagged with the effective permission.
func (h *ItemHandler) List(c *gin.Context) {
	view, err := h.access.Resolve(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Create inserts a new item owned by the requester
func (h *ItemHandler) Create(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.items.Create(c.Request.Context(), currentUser(c), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

// Update rewrites an item's name and description
func (h *ItemHandler) Update(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.items.Update(c.Request.Context(), currentUser(c), c.Param("id"), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// Delete removes an item
func (h *ItemHandler) Delete(c *gin.Context) {
	if err := h.items.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}
