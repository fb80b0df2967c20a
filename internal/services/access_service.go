package services

import (
	"context"
	"fmt"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/repositories"
)

// AccessResolver defines the interface for effective view resolution
type AccessResolver interface {
	ResolveOwned(ctx context.Context, userID string) ([]entities.Item, error)
	ResolveShared(ctx context.Context, userID string) ([]entities.EffectiveItem, error)
	Resolve(ctx context.Context, userID string) (*entities.EffectiveView, error)
}

// AccessService computes a user's effective visible set by composing
// reads against the item and grant relations
type AccessService struct {
	itemRepo  repositories.ItemRepository
	grantRepo repositories.GrantRepository
}

// NewAccessService creates a new AccessService
func NewAccessService(itemRepo repositories.ItemRepository, grantRepo repositories.GrantRepository) *AccessService {
	return &AccessService{
		itemRepo:  itemRepo,
		grantRepo: grantRepo,
	}
}

// ResolveOwned returns the items owned by a user, newest first
func (s *AccessService) ResolveOwned(ctx context.Context, userID string) ([]entities.Item, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	owned, err := s.itemRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owned items: %w", err)
	}

	items := make([]entities.Item, 0, len(owned))
	for _, item := range owned {
		items = append(items, *item)
	}

	return items, nil
}

// ResolveShared returns the items shared with a user, each tagged with
// the effective permission derived from its grant. When the user holds
// no grants it returns immediately without touching the item relation.
// Grants whose item has since been deleted are dropped, not reported.
func (s *AccessService) ResolveShared(ctx context.Context, userID string) ([]entities.EffectiveItem, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	grants, err := s.grantRepo.ListByGrantee(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}
	if len(grants) == 0 {
		return []entities.EffectiveItem{}, nil
	}

	ids := make([]string, 0, len(grants))
	byItem := make(map[string]*entities.ShareGrant, len(grants))
	for _, grant := range grants {
		ids = append(ids, grant.ItemID)
		byItem[grant.ItemID] = grant
	}

	items, err := s.itemRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shared items: %w", err)
	}

	// The uniqueness constraint on (item_id, shared_with) guarantees
	// exactly one grant per fetched item for this user.
	shared := make([]entities.EffectiveItem, 0, len(items))
	for _, item := range items {
		grant, ok := byItem[item.ID]
		if !ok {
			continue
		}
		shared = append(shared, entities.EffectiveItem{
			Item:       *item,
			Permission: entities.PermissionForGrant(grant.CanEdit),
		})
	}

	return shared, nil
}

// Resolve composes the owned and shared sets into the user's full
// effective view
func (s *AccessService) Resolve(ctx context.Context, userID string) (*entities.EffectiveView, error) {
	owned, err := s.ResolveOwned(ctx, userID)
	if err != nil {
		return nil, err
	}

	shared, err := s.ResolveShared(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &entities.EffectiveView{
		UserID: userID,
		Owned:  owned,
		Shared: shared,
	}, nil
}
