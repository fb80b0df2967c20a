package entities

import "errors"

// Error taxonomy for the access subsystem. All of these are returned as
// explicit results to the caller and matched with errors.Is; validation
// and authorization failures are terminal for the triggering request,
// while ErrTransient may be retried by the caller (a retried grant that
// already succeeded simply yields ErrDuplicateGrant again).
var (
	// ErrNotFound is returned when an identifier cannot be resolved
	// or a referenced item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSelfShare is returned when a user attempts to grant access
	// to themselves.
	ErrSelfShare = errors.New("cannot share with yourself")

	// ErrDuplicateGrant is returned when a grant for the same
	// (item, grantee) pair already exists. The existing grant is left
	// unchanged.
	ErrDuplicateGrant = errors.New("item already shared with this user")

	// ErrUnauthorized is returned when the requester lacks permission
	// for a mutation or grant.
	ErrUnauthorized = errors.New("not authorized")

	// ErrTransient wraps storage or network unavailability.
	ErrTransient = errors.New("transient failure")
)
