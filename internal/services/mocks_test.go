package services

import (
	"context"
	"fmt"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
)

// mockItemRepository is an in-memory ItemRepository for tests
type mockItemRepository struct {
	items map[string]*entities.Item

	// call counters used to assert query behavior
	getByIDsCalls int

	failNext error
}

func newMockItemRepository() *mockItemRepository {
	return &mockItemRepository{items: make(map[string]*entities.Item)}
}

func (m *mockItemRepository) takeErr() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func (m *mockItemRepository) Create(ctx context.Context, item *entities.Item) error {
	if err := m.takeErr(); err != nil {
		return err
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockItemRepository) GetByID(ctx context.Context, id string) (*entities.Item, error) {
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	item, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, entities.ErrNotFound)
	}
	copied := *item
	return &copied, nil
}

func (m *mockItemRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Item, error) {
	m.getByIDsCalls++
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	var out []*entities.Item
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Item, error) {
	if err := m.takeErr(); err != nil {
		return nil, err
	}
	var out []*entities.Item
	for _, item := range m.items {
		if item.OwnerID == ownerID {
			copied := *item
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockItemRepository) Update(ctx context.Context, item *entities.Item) error {
	if err := m.takeErr(); err != nil {
		return err
	}
	if _, ok := m.items[item.ID]; !ok {
		return fmt.Errorf("item %s: %w", item.ID, entities.ErrNotFound)
	}
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockItemRepository) Delete(ctx context.Context, id string) error {
	if err := m.takeErr(); err != nil {
		return err
	}
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("item %s: %w", id, entities.ErrNotFound)
	}
	delete(m.items, id)
	return nil
}

// mockGrantRepository is an in-memory GrantRepository enforcing the
// same uniqueness constraint as the shared_items table
type mockGrantRepository struct {
	grants []*entities.ShareGrant
}

func newMockGrantRepository() *mockGrantRepository {
	return &mockGrantRepository{}
}

func (m *mockGrantRepository) Create(ctx context.Context, grant *entities.ShareGrant) error {
	if err := grant.Validate(); err != nil {
		return err
	}
	for _, existing := range m.grants {
		if existing.ItemID == grant.ItemID && existing.GranteeID == grant.GranteeID {
			return fmt.Errorf("grant for %s: %w", grant.String(), entities.ErrDuplicateGrant)
		}
	}
	copied := *grant
	m.grants = append(m.grants, &copied)
	return nil
}

func (m *mockGrantRepository) ListByGrantee(ctx context.Context, granteeID string) ([]*entities.ShareGrant, error) {
	var out []*entities.ShareGrant
	for _, grant := range m.grants {
		if grant.GranteeID == granteeID {
			copied := *grant
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockGrantRepository) GetForItemAndGrantee(ctx context.Context, itemID, granteeID string) (*entities.ShareGrant, error) {
	for _, grant := range m.grants {
		if grant.ItemID == itemID && grant.GranteeID == granteeID {
			copied := *grant
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("grant for item %s and user %s: %w", itemID, granteeID, entities.ErrNotFound)
}

// mockProfileRepository maps emails to user IDs
type mockProfileRepository struct {
	byEmail map[string]string
}

func newMockProfileRepository(byEmail map[string]string) *mockProfileRepository {
	return &mockProfileRepository{byEmail: byEmail}
}

func (m *mockProfileRepository) GetUserIDByEmail(ctx context.Context, email string) (string, error) {
	userID, ok := m.byEmail[email]
	if !ok {
		return "", fmt.Errorf("no user with email %s: %w", email, entities.ErrNotFound)
	}
	return userID, nil
}
