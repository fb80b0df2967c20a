package services

import (
	"context"
	"fmt"
	"time"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/repositories"
)

// ShareService handles the grant lifecycle: resolving the grantee,
// validating the request and creating the grant record.
//
// There is deliberately no revoke or update-grant operation; a grant's
// can_edit value is immutable once created and duplicates are rejected
// terminally.
type ShareService struct {
	identity  IdentityResolver
	itemRepo  repositories.ItemRepository
	grantRepo repositories.GrantRepository
}

// NewShareService creates a new ShareService
func NewShareService(identity IdentityResolver, itemRepo repositories.ItemRepository, grantRepo repositories.GrantRepository) *ShareService {
	return &ShareService{
		identity:  identity,
		itemRepo:  itemRepo,
		grantRepo: grantRepo,
	}
}

// Grant shares an item with the user identified by granteeEmail.
//
// Failure modes, in check order:
//   - entities.ErrNotFound: the email resolves to no user, or the item
//     does not exist
//   - entities.ErrSelfShare: the email resolves to the requester
//   - entities.ErrUnauthorized: the requester does not own the item
//   - entities.ErrDuplicateGrant: a grant for (item, grantee) already
//     exists; the existing can_edit is left unchanged
func (s *ShareService) Grant(ctx context.Context, requesterID, itemID, granteeEmail string, canEdit bool) (*entities.ShareGrant, error) {
	if requesterID == "" {
		return nil, fmt.Errorf("requester ID is required")
	}
	if itemID == "" {
		return nil, fmt.Errorf("item ID is required")
	}

	granteeID, err := s.identity.ResolveEmail(ctx, granteeEmail)
	if err != nil {
		return nil, err
	}

	if granteeID == requesterID {
		return nil, fmt.Errorf("grant on item %s: %w", itemID, entities.ErrSelfShare)
	}

	// Ownership is verified here, never assumed from the caller.
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != requesterID {
		return nil, fmt.Errorf("user %s does not own item %s: %w", requesterID, itemID, entities.ErrUnauthorized)
	}

	grant := &entities.ShareGrant{
		ItemID:    itemID,
		OwnerID:   requesterID,
		GranteeID: granteeID,
		CanEdit:   canEdit,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.grantRepo.Create(ctx, grant); err != nil {
		return nil, err
	}

	return grant, nil
}
