package entities

import (
	"fmt"
	"time"
)

// Item represents a user-owned record.
// Ownership is exclusive: only OwnerID may delete the item, and only
// OwnerID or a grantee with edit access may update it.
type Item struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks if the item is valid
func (i *Item) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("item ID is required")
	}
	if i.OwnerID == "" {
		return fmt.Errorf("owner ID is required")
	}
	if i.Name == "" {
		return fmt.Errorf("item name is required")
	}
	return nil
}
