package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
)

func TestItemService_Create(t *testing.T) {
	itemRepo := newMockItemRepository()
	svc := NewItemService(itemRepo, newMockGrantRepository())

	item, err := svc.Create(context.Background(), "alice", "Report", "Q3 numbers")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID == "" {
		t.Error("created item has no ID")
	}
	if item.OwnerID != "alice" {
		t.Errorf("owner = %q, want alice", item.OwnerID)
	}
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Error("timestamps not assigned")
	}
	if _, ok := itemRepo.items[item.ID]; !ok {
		t.Error("item not persisted")
	}
}

func TestItemService_Update_Authorization(t *testing.T) {
	tests := []struct {
		name        string
		requesterID string
		canEdit     *bool // nil = no grant
		wantErr     error
	}{
		{
			name:        "owner may update",
			requesterID: "alice",
			wantErr:     nil,
		},
		{
			name:        "grantee with edit access may update",
			requesterID: "bob",
			canEdit:     boolPtr(true),
			wantErr:     nil,
		},
		{
			name:        "grantee with view-only access may not update",
			requesterID: "bob",
			canEdit:     boolPtr(false),
			wantErr:     entities.ErrUnauthorized,
		},
		{
			name:        "stranger may not update",
			requesterID: "mallory",
			wantErr:     entities.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			itemRepo := newMockItemRepository()
			grantRepo := newMockGrantRepository()
			seedItem(itemRepo, "i1", "alice", "Report", time.Now())
			if tt.canEdit != nil {
				grantRepo.grants = []*entities.ShareGrant{
					{ItemID: "i1", OwnerID: "alice", GranteeID: tt.requesterID, CanEdit: *tt.canEdit},
				}
			}

			svc := NewItemService(itemRepo, grantRepo)
			updated, err := svc.Update(context.Background(), tt.requesterID, "i1", "Renamed", "new text")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Update() error = %v, want %v", err, tt.wantErr)
				}
				if itemRepo.items["i1"].Name != "Report" {
					t.Error("rejected update mutated the item")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if updated.Name != "Renamed" {
				t.Errorf("name = %q, want Renamed", updated.Name)
			}
		})
	}
}

func TestItemService_Delete_OwnerOnly(t *testing.T) {
	tests := []struct {
		name        string
		requesterID string
		canEdit     *bool
		wantErr     error
	}{
		{
			name:        "owner may delete",
			requesterID: "alice",
			wantErr:     nil,
		},
		{
			name:        "editor may not delete",
			requesterID: "bob",
			canEdit:     boolPtr(true),
			wantErr:     entities.ErrUnauthorized,
		},
		{
			name:        "viewer may not delete",
			requesterID: "bob",
			canEdit:     boolPtr(false),
			wantErr:     entities.ErrUnauthorized,
		},
		{
			name:        "stranger may not delete",
			requesterID: "mallory",
			wantErr:     entities.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			itemRepo := newMockItemRepository()
			grantRepo := newMockGrantRepository()
			seedItem(itemRepo, "i1", "alice", "Report", time.Now())
			if tt.canEdit != nil {
				grantRepo.grants = []*entities.ShareGrant{
					{ItemID: "i1", OwnerID: "alice", GranteeID: tt.requesterID, CanEdit: *tt.canEdit},
				}
			}

			svc := NewItemService(itemRepo, grantRepo)
			err := svc.Delete(context.Background(), tt.requesterID, "i1")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Delete() error = %v, want %v", err, tt.wantErr)
				}
				if _, ok := itemRepo.items["i1"]; !ok {
					t.Error("rejected delete removed the item")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := itemRepo.items["i1"]; ok {
				t.Error("item still present after delete")
			}
		})
	}
}

func TestItemService_Update_MissingItem(t *testing.T) {
	svc := NewItemService(newMockItemRepository(), newMockGrantRepository())
	_, err := svc.Update(context.Background(), "alice", "missing", "x", "")
	if !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func boolPtr(b bool) *bool { return &b }
