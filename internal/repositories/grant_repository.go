package repositories

import (
	"context"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
)

// GrantRepository defines the interface for share grant data access
type GrantRepository interface {
	// Create inserts a new grant. A uniqueness violation on
	// (item_id, shared_with) surfaces as entities.ErrDuplicateGrant;
	// the existing grant is never updated.
	Create(ctx context.Context, grant *entities.ShareGrant) error

	// ListByGrantee retrieves all grants where the user is the grantee
	ListByGrantee(ctx context.Context, granteeID string) ([]*entities.ShareGrant, error)

	// GetForItemAndGrantee retrieves the grant for a specific
	// (item, grantee) pair, or entities.ErrNotFound
	GetForItemAndGrantee(ctx context.Context, itemID, granteeID string) (*entities.ShareGrant, error)
}
