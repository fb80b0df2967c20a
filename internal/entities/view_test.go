package entities

import "testing"

func TestPermissionForGrant(t *testing.T) {
	if got := PermissionForGrant(true); got != PermissionEditor {
		t.Errorf("PermissionForGrant(true) = %v, want %v", got, PermissionEditor)
	}
	if got := PermissionForGrant(false); got != PermissionViewer {
		t.Errorf("PermissionForGrant(false) = %v, want %v", got, PermissionViewer)
	}
}

func TestChangeEvent_Relevant(t *testing.T) {
	tests := []struct {
		name  string
		event ChangeEvent
		want  bool
	}{
		{"items insert", ChangeEvent{Event: EventInsert, Table: TableItems}, true},
		{"items delete", ChangeEvent{Event: EventDelete, Table: TableItems}, true},
		{"shared_items update", ChangeEvent{Event: EventUpdate, Table: TableSharedItems}, true},
		{"unrelated table", ChangeEvent{Event: EventInsert, Table: "profiles"}, false},
		{"empty table", ChangeEvent{Event: EventInsert}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Relevant(); got != tt.want {
				t.Errorf("Relevant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		wantErr bool
	}{
		{"valid item", Item{ID: "i1", OwnerID: "alice", Name: "Report"}, false},
		{"missing ID", Item{OwnerID: "alice", Name: "Report"}, true},
		{"missing owner", Item{ID: "i1", Name: "Report"}, true},
		{"missing name", Item{ID: "i1", OwnerID: "alice"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Item.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
