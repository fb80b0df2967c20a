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

// PostgresItemRepository implements ItemRepository using PostgreSQL
type PostgresItemRepository struct {
	db *sql.DB
}

// NewPostgresItemRepository creates a new PostgreSQL item repository
func NewPostgresItemRepository(db *sql.DB) repositories.ItemRepository {
	return &PostgresItemRepository{db: db}
}

// Create inserts a new item
func (r *PostgresItemRepository) Create(ctx context.Context, item *entities.Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("invalid item: %w", err)
	}

	query := `
		INSERT INTO items (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		item.ID, item.OwnerID, item.Name, item.Description, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", wrapStorageError(err))
	}

	return nil
}

// GetByID retrieves a single item
func (r *PostgresItemRepository) GetByID(ctx context.Context, id string) (*entities.Item, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM items
		WHERE id = $1
	`
	var item entities.Item
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", wrapStorageError(err))
	}

	return &item, nil
}

// GetByIDs batch-fetches items by ID. IDs with no matching row are
// silently absent from the result; callers treat those as stale
// references, not errors.
func (r *PostgresItemRepository) GetByIDs(ctx context.Context, ids []string) ([]*entities.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM items
		WHERE id = ANY($1)
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", wrapStorageError(err))
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListByOwner retrieves all items owned by a user, ordered by
// created_at descending. Ties keep storage insertion order.
func (r *PostgresItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]*entities.Item, error) {
	query := `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM items
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query owned items: %w", wrapStorageError(err))
	}
	defer rows.Close()

	return scanItems(rows)
}

// Update rewrites an item's mutable fields
func (r *PostgresItemRepository) Update(ctx context.Context, item *entities.Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("invalid item: %w", err)
	}

	query := `
		UPDATE items
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, item.ID, item.Name, item.Description, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", wrapStorageError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", wrapStorageError(err))
	}
	if affected == 0 {
		return fmt.Errorf("item %s: %w", item.ID, entities.ErrNotFound)
	}

	return nil
}

// Delete removes an item by ID
func (r *PostgresItemRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM items WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", wrapStorageError(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", wrapStorageError(err))
	}
	if affected == 0 {
		return fmt.Errorf("item %s: %w", id, entities.ErrNotFound)
	}

	return nil
}

func scanItems(rows *sql.Rows) ([]*entities.Item, error) {
	var items []*entities.Item
	for rows.Next() {
		var item entities.Item
		err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Name, &item.Description, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", wrapStorageError(err))
	}

	return items, nil
}
