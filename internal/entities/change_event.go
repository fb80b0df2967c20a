package entities

// Tables watched by the change feed.
const (
	TableItems       = "items"
	TableSharedItems = "shared_items"
)

// Mutation kinds delivered by the change feed.
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

// ChangeEvent is a table-granular mutation notification. The channel
// guarantees nothing beyond table identity, so consumers must treat
// every event as "something changed, re-resolve" and never depend on
// payload content.
type ChangeEvent struct {
	Event string `json:"event"`
	Table string `json:"table"`
}

// Relevant reports whether the event touches a relation that feeds the
// effective view.
func (e ChangeEvent) Relevant() bool {
	return e.Table == TableItems || e.Table == TableSharedItems
}
