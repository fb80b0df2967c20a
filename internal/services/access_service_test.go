package services

import (
	"context"
	"testing"
	"time"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
)

func seedItem(repo *mockItemRepository, id, ownerID, name string, createdAt time.Time) {
	repo.items[id] = &entities.Item{
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestAccessService_ResolveShared_NoGrantsShortCircuit(t *testing.T) {
	itemRepo := newMockItemRepository()
	grantRepo := newMockGrantRepository()
	seedItem(itemRepo, "i1", "alice", "Report", time.Now())

	svc := NewAccessService(itemRepo, grantRepo)

	shared, err := svc.ResolveShared(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shared) != 0 {
		t.Errorf("ResolveShared() = %d items, want 0", len(shared))
	}
	// With zero grants the item relation must not be queried at all.
	if itemRepo.getByIDsCalls != 0 {
		t.Errorf("item batch fetch performed %d times with zero grants, want 0", itemRepo.getByIDsCalls)
	}
}

func TestAccessService_ResolveShared_Permissions(t *testing.T) {
	itemRepo := newMockItemRepository()
	grantRepo := newMockGrantRepository()
	seedItem(itemRepo, "i1", "alice", "Report", time.Now())
	seedItem(itemRepo, "i2", "alice", "Budget", time.Now())
	grantRepo.grants = []*entities.ShareGrant{
		{ItemID: "i1", OwnerID: "alice", GranteeID: "bob", CanEdit: false},
		{ItemID: "i2", OwnerID: "alice", GranteeID: "bob", CanEdit: true},
	}

	svc := NewAccessService(itemRepo, grantRepo)

	shared, err := svc.ResolveShared(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shared) != 2 {
		t.Fatalf("ResolveShared() = %d items, want 2", len(shared))
	}

	perms := make(map[string]entities.Permission)
	for _, ei := range shared {
		perms[ei.Item.ID] = ei.Permission
	}
	if perms["i1"] != entities.PermissionViewer {
		t.Errorf("i1 permission = %q, want %q", perms["i1"], entities.PermissionViewer)
	}
	if perms["i2"] != entities.PermissionEditor {
		t.Errorf("i2 permission = %q, want %q", perms["i2"], entities.PermissionEditor)
	}
}

func TestAccessService_ResolveShared_StaleGrantOmitted(t *testing.T) {
	itemRepo := newMockItemRepository()
	grantRepo := newMockGrantRepository()
	// Grant references an item that no longer exists.
	grantRepo.grants = []*entities.ShareGrant{
		{ItemID: "gone", OwnerID: "alice", GranteeID: "bob", CanEdit: true},
	}

	svc := NewAccessService(itemRepo, grantRepo)

	shared, err := svc.ResolveShared(context.Background(), "bob")
	if err != nil {
		t.Fatalf("stale grant should not error: %v", err)
	}
	if len(shared) != 0 {
		t.Errorf("ResolveShared() = %d items, want 0 (stale grant dropped)", len(shared))
	}
}

func TestAccessService_Resolve_OwnerNeverInShared(t *testing.T) {
	itemRepo := newMockItemRepository()
	grantRepo := newMockGrantRepository()
	seedItem(itemRepo, "i1", "alice", "Report", time.Now())
	seedItem(itemRepo, "i2", "carol", "Notes", time.Now())
	grantRepo.grants = []*entities.ShareGrant{
		{ItemID: "i2", OwnerID: "carol", GranteeID: "alice", CanEdit: false},
	}

	svc := NewAccessService(itemRepo, grantRepo)

	view, err := svc.Resolve(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.UserID != "alice" {
		t.Errorf("view user = %q, want alice", view.UserID)
	}
	if len(view.Owned) != 1 || view.Owned[0].ID != "i1" {
		t.Errorf("owned = %+v, want exactly i1", view.Owned)
	}
	for _, ei := range view.Shared {
		if ei.Item.OwnerID == "alice" {
			t.Errorf("shared set contains item %s owned by the requester", ei.Item.ID)
		}
	}
	if len(view.Shared) != 1 || view.Shared[0].Item.ID != "i2" {
		t.Errorf("shared = %+v, want exactly i2", view.Shared)
	}
}
