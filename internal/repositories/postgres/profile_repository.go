package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/entities"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/repositories"
)

// PostgresProfileRepository implements ProfileRepository using PostgreSQL
type PostgresProfileRepository struct {
	db *sql.DB
}

// NewPostgresProfileRepository creates a new PostgreSQL profile repository
func NewPostgresProfileRepository(db *sql.DB) repositories.ProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// GetUserIDByEmail resolves an email address to the internal user ID
func (r *PostgresProfileRepository) GetUserIDByEmail(ctx context.Context, email string) (string, error) {
	query := `SELECT user_id FROM profiles WHERE email = $1`

	var userID string
	err := r.db.QueryRowContext(ctx, query, email).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("no user with email %s: %w", email, entities.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve email: %w", wrapStorageError(err))
	}

	return userID, nil
}
