package entities

import (
	"fmt"
	"time"
)

// ShareGrant represents a directed permission edge from an item's owner
// to a grantee. A grant is purely additive access: it never transfers
// ownership. At most one grant exists per (ItemID, GranteeID) pair; a
// duplicate attempt is rejected at creation time, never merged.
type ShareGrant struct {
	ItemID    string    `json:"item_id"`
	OwnerID   string    `json:"shared_by"`
	GranteeID string    `json:"shared_with"`
	CanEdit   bool      `json:"can_edit"`
	CreatedAt time.Time `json:"created_at"`
}

// String returns a string representation of the grant
// Format: item_id#owner_id->grantee_id (edit|view)
func (g *ShareGrant) String() string {
	mode := "view"
	if g.CanEdit {
		mode = "edit"
	}
	return fmt.Sprintf("%s#%s->%s (%s)", g.ItemID, g.OwnerID, g.GranteeID, mode)
}

// Validate checks if the grant is valid
func (g *ShareGrant) Validate() error {
	if g.ItemID == "" {
		return fmt.Errorf("item ID is required")
	}
	if g.OwnerID == "" {
		return fmt.Errorf("owner ID is required")
	}
	if g.GranteeID == "" {
		return fmt.Errorf("grantee ID is required")
	}
	if g.GranteeID == g.OwnerID {
		return fmt.Errorf("cannot share an item with its owner: %w", ErrSelfShare)
	}
	return nil
}
