package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/repositories"
)

// IdentityResolver maps a human-readable identifier to an internal
// user ID.
type IdentityResolver interface {
	ResolveEmail(ctx context.Context, email string) (string, error)
}

// ProfileIdentityResolver resolves emails against the profiles relation
type ProfileIdentityResolver struct {
	profileRepo repositories.ProfileRepository
}

// NewProfileIdentityResolver creates a new ProfileIdentityResolver
func NewProfileIdentityResolver(profileRepo repositories.ProfileRepository) *ProfileIdentityResolver {
	return &ProfileIdentityResolver{profileRepo: profileRepo}
}

// ResolveEmail resolves an email address to the internal user ID
func (r *ProfileIdentityResolver) ResolveEmail(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("email is required")
	}

	userID, err := r.profileRepo.GetUserIDByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to resolve identity: %w", err)
	}

	return userID, nil
}
