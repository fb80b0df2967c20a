package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/repositories"
)

// ItemService handles item mutations with the authorization rules
// enforced in the service itself:
//
//   - create: always permitted; the requester becomes the owner
//   - update: owner, or a grantee holding can_edit
//   - delete: owner only
type ItemService struct {
	itemRepo  repositories.ItemRepository
	grantRepo repositories.GrantRepository
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo repositories.ItemRepository, grantRepo repositories.GrantRepository) *ItemService {
	return &ItemService{
		itemRepo:  itemRepo,
		grantRepo: grantRepo,
	}
}

// Create inserts a new item owned by the requester
func (s *ItemService) Create(ctx context.Context, requesterID, name, description string) (*entities.Item, error) {
	if requesterID == "" {
		return nil, fmt.Errorf("requester ID is required")
	}

	now := time.Now().UTC()
	item := &entities.Item{
		ID:          uuid.New().String(),
		OwnerID:     requesterID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// Update rewrites an item's name and description. Permitted for the
// owner or a grantee with can_edit; everyone else gets
// entities.ErrUnauthorized.
func (s *ItemService) Update(ctx context.Context, requesterID, itemID, name, description string) (*entities.Item, error) {
	if requesterID == "" {
		return nil, fmt.Errorf("requester ID is required")
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.OwnerID != requesterID {
		grant, err := s.grantRepo.GetForItemAndGrantee(ctx, itemID, requesterID)
		if err != nil {
			if errors.Is(err, entities.ErrNotFound) {
				return nil, fmt.Errorf("user %s cannot edit item %s: %w", requesterID, itemID, entities.ErrUnauthorized)
			}
			return nil, err
		}
		if !grant.CanEdit {
			return nil, fmt.Errorf("user %s has view-only access to item %s: %w", requesterID, itemID, entities.ErrUnauthorized)
		}
	}

	item.Name = name
	item.Description = description
	item.UpdatedAt = time.Now().UTC()

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// Delete removes an item. Owner only: neither viewers nor editors may
// destroy data they do not own, so the check is never delegated to an
// outer policy layer.
func (s *ItemService) Delete(ctx context.Context, requesterID, itemID string) error {
	if requesterID == "" {
		return fmt.Errorf("requester ID is required")
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.OwnerID != requesterID {
		return fmt.Errorf("user %s does not own item %s: %w", requesterID, itemID, entities.ErrUnauthorized)
	}

	// Grants referencing the deleted item are left in place; the
	// resolver treats them as stale and drops them from the view.
	return s.itemRepo.Delete(ctx, itemID)
}
