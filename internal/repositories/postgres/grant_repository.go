package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/repositories"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint
// violation (class 23, integrity constraint violation).
const uniqueViolation = "23505"

// PostgresGrantRepository implements GrantRepository using PostgreSQL
type PostgresGrantRepository struct {
	db *sql.DB
}

// NewPostgresGrantRepository creates a new PostgreSQL grant repository
func NewPostgresGrantRepository(db *sql.DB) repositories.GrantRepository {
	return &PostgresGrantRepository{db: db}
}

// Create inserts a new grant. The shared_items table carries a unique
// constraint on (item_id, shared_with); a violation maps to
// entities.ErrDuplicateGrant and the existing grant keeps its can_edit
// value. This is a deliberate reject, not an upsert.
func (r *PostgresGrantRepository) Create(ctx context.Context, grant *entities.ShareGrant) error {
	if err := grant.Validate(); err != nil {
		return fmt.Errorf("invalid grant: %w", err)
	}

	query := `
		INSERT INTO shared_items (item_id, shared_by, shared_with, can_edit, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		grant.ItemID, grant.OwnerID, grant.GranteeID, grant.CanEdit, grant.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return fmt.Errorf("grant for %s: %w", grant.String(), entities.ErrDuplicateGrant)
		}
		return fmt.Errorf("failed to insert grant: %w", wrapStorageError(err))
	}

	return nil
}

// ListByGrantee retrieves all grants where the user is the grantee
func (r *PostgresGrantRepository) ListByGrantee(ctx context.Context, granteeID string) ([]*entities.ShareGrant, error) {
	query := `
		SELECT item_id, shared_by, shared_with, can_edit, created_at
		FROM shared_items
		WHERE shared_with = $1
	`
	rows, err := r.db.QueryContext(ctx, query, granteeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grants: %w", wrapStorageError(err))
	}
	defer rows.Close()

	var grants []*entities.ShareGrant
	for rows.Next() {
		var grant entities.ShareGrant
		err := rows.Scan(
			&grant.ItemID, &grant.OwnerID, &grant.GranteeID, &grant.CanEdit, &grant.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		grants = append(grants, &grant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grants: %w", wrapStorageError(err))
	}

	return grants, nil
}

// GetForItemAndGrantee retrieves the grant for a specific (item, grantee) pair
func (r *PostgresGrantRepository) GetForItemAndGrantee(ctx context.Context, itemID, granteeID string) (*entities.ShareGrant, error) {
	query := `
		SELECT item_id, shared_by, shared_with, can_edit, created_at
		FROM shared_items
		WHERE item_id = $1 AND shared_with = $2
	`
	var grant entities.ShareGrant
	err := r.db.QueryRowContext(ctx, query, itemID, granteeID).Scan(
		&grant.ItemID, &grant.OwnerID, &grant.GranteeID, &grant.CanEdit, &grant.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("grant for item %s and user %s: %w", itemID, granteeID, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grant: %w", wrapStorageError(err))
	}

	return &grant, nil
}

// wrapStorageError tags storage failures as transient so callers can
// distinguish them from terminal validation and authorization errors.
func wrapStorageError(err error) error {
	return fmt.Errorf("%w: %v", entities.ErrTransient, err)
}
