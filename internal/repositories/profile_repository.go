package repositories

import "context"

// ProfileRepository defines the interface for identity lookups against
// the profiles relation maintained by the auth collaborator.
type ProfileRepository interface {
	// GetUserIDByEmail resolves an email address to the internal user
	// ID, or entities.ErrNotFound
	GetUserIDByEmail(ctx context.Context, email string) (string, error)
}
