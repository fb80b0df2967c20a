package entities

// Permission is the resolved access level a user has on an item.
type Permission string

const (
	PermissionOwner  Permission = "owner"
	PermissionEditor Permission = "editor"
	PermissionViewer Permission = "viewer"
)

// PermissionForGrant maps a grant's can_edit flag to the effective permission.
func PermissionForGrant(canEdit bool) Permission {
	if canEdit {
		return PermissionEditor
	}
	return PermissionViewer
}

// EffectiveItem is an item tagged with the requesting user's effective
// permission on it.
type EffectiveItem struct {
	Item       Item       `json:"item"`
	Permission Permission `json:"permission"`
}

// EffectiveView is the derived, never persisted view of everything a
// user can see: the items they own plus the items shared with them.
// An item never appears twice with conflicting permissions for the same
// user; the grant uniqueness constraint guarantees this.
type EffectiveView struct {
	UserID string          `json:"user_id"`
	Owned  []Item          `json:"owned"`
	Shared []EffectiveItem `json:"shared"`
}
