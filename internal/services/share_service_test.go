package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
)

func newShareFixture() (*ShareService, *mockItemRepository, *mockGrantRepository) {
	itemRepo := newMockItemRepository()
	grantRepo := newMockGrantRepository()
	profileRepo := newMockProfileRepository(map[string]string{
		"alice@example.com": "alice",
		"bob@example.com":   "bob",
	})
	identity := NewProfileIdentityResolver(profileRepo)
	return NewShareService(identity, itemRepo, grantRepo), itemRepo, grantRepo
}

func TestShareService_Grant(t *testing.T) {
	tests := []struct {
		name         string
		requesterID  string
		itemID       string
		granteeEmail string
		canEdit      bool
		wantErr      error
	}{
		{
			name:         "owner shares with another user",
			requesterID:  "alice",
			itemID:       "i1",
			granteeEmail: "bob@example.com",
			canEdit:      true,
			wantErr:      nil,
		},
		{
			name:         "unknown email",
			requesterID:  "alice",
			itemID:       "i1",
			granteeEmail: "nobody@example.com",
			wantErr:      entities.ErrNotFound,
		},
		{
			name:         "sharing with yourself",
			requesterID:  "alice",
			itemID:       "i1",
			granteeEmail: "alice@example.com",
			wantErr:      entities.ErrSelfShare,
		},
		{
			name:         "requester does not own the item",
			requesterID:  "bob",
			itemID:       "i1",
			granteeEmail: "alice@example.com",
			wantErr:      entities.ErrUnauthorized,
		},
		{
			name:         "item does not exist",
			requesterID:  "alice",
			itemID:       "missing",
			granteeEmail: "bob@example.com",
			wantErr:      entities.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, itemRepo, _ := newShareFixture()
			seedItem(itemRepo, "i1", "alice", "Report", time.Now())

			grant, err := svc.Grant(context.Background(), tt.requesterID, tt.itemID, tt.granteeEmail, tt.canEdit)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Grant() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if grant.ItemID != tt.itemID || grant.OwnerID != tt.requesterID {
				t.Errorf("grant = %+v, want item %s owned by %s", grant, tt.itemID, tt.requesterID)
			}
			if grant.CanEdit != tt.canEdit {
				t.Errorf("grant.CanEdit = %v, want %v", grant.CanEdit, tt.canEdit)
			}
		})
	}
}

func TestShareService_Grant_DuplicateKeepsOriginal(t *testing.T) {
	svc, itemRepo, grantRepo := newShareFixture()
	seedItem(itemRepo, "i1", "alice", "Report", time.Now())

	first, err := svc.Grant(context.Background(), "alice", "i1", "bob@example.com", false)
	if err != nil {
		t.Fatalf("first grant failed: %v", err)
	}

	// Second attempt flips can_edit; it must be rejected, not merged.
	_, err = svc.Grant(context.Background(), "alice", "i1", "bob@example.com", true)
	if !errors.Is(err, entities.ErrDuplicateGrant) {
		t.Fatalf("second grant error = %v, want ErrDuplicateGrant", err)
	}

	stored, err := grantRepo.GetForItemAndGrantee(context.Background(), "i1", "bob")
	if err != nil {
		t.Fatalf("original grant missing after duplicate attempt: %v", err)
	}
	if stored.CanEdit != first.CanEdit {
		t.Errorf("stored can_edit = %v, want original %v", stored.CanEdit, first.CanEdit)
	}
}

// Owner A creates an item, shares it read-only with B; B sees it as a
// viewer, cannot update it, and A repeating the grant gets a duplicate
// rejection.
func TestShareScenario_ViewerGrant(t *testing.T) {
	itemRepo := newMockItemRepository()
	grantRepo := newMockGrantRepository()
	profileRepo := newMockProfileRepository(map[string]string{"b@example.com": "B"})
	identity := NewProfileIdentityResolver(profileRepo)

	items := NewItemService(itemRepo, grantRepo)
	shares := NewShareService(identity, itemRepo, grantRepo)
	access := NewAccessService(itemRepo, grantRepo)

	ctx := context.Background()

	item, err := items.Create(ctx, "A", "Report", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := shares.Grant(ctx, "A", item.ID, "b@example.com", false); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	view, err := access.Resolve(ctx, "B")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if len(view.Shared) != 1 || view.Shared[0].Item.ID != item.ID {
		t.Fatalf("B's shared view = %+v, want item %s", view.Shared, item.ID)
	}
	if view.Shared[0].Permission != entities.PermissionViewer {
		t.Errorf("B's permission = %q, want viewer", view.Shared[0].Permission)
	}

	if _, err := items.Update(ctx, "B", item.ID, "Edited", ""); !errors.Is(err, entities.ErrUnauthorized) {
		t.Errorf("viewer update error = %v, want ErrUnauthorized", err)
	}

	if _, err := shares.Grant(ctx, "A", item.ID, "b@example.com", false); !errors.Is(err, entities.ErrDuplicateGrant) {
		t.Errorf("repeated grant error = %v, want ErrDuplicateGrant", err)
	}
}
