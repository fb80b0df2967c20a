package repositories

import (
	"context"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
)

// ItemRepository defines the interface for item data access
type ItemRepository interface {
	// Create inserts a new item
	Create(ctx context.Context, item *entities.Item) error

	// GetByID retrieves a single item, or entities.ErrNotFound
	GetByID(ctx context.Context, id string) (*entities.Item, error)

	// GetByIDs batch-fetches items by ID; missing IDs are silently
	// absent from the result
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Item, error)

	// ListByOwner retrieves all items owned by a user, newest first
	ListByOwner(ctx context.Context, ownerID string) ([]*entities.Item, error)

	// Update rewrites an item's name, description and updated_at
	Update(ctx context.Context, item *entities.Item) error

	// Delete removes an item by ID
	Delete(ctx context.Context, id string) error
}
