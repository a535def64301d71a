package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"notoc/database"
	"notoc/models"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository bound to a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

// GetByTelegramID retrieves a user by their Telegram ID
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	query := `
		SELECT id, telegram_id, full_name, created_at
		FROM users
		WHERE telegram_id = $1
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, telegramID).Scan(
		&user.ID,
		&user.TelegramID,
		&user.FullName,
		&user.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by telegram ID %d: %w", telegramID, err)
	}

	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, telegramID int64, fullName string) (*models.User, error) {
	query := `
		INSERT INTO users (telegram_id, full_name)
		VALUES ($1, $2)
		RETURNING id, telegram_id, full_name, created_at
	`

	var user models.User
	err := r.q.QueryRow(ctx, query, telegramID, fullName).Scan(
		&user.ID,
		&user.TelegramID,
		&user.FullName,
		&user.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user with telegram ID %d: %w", telegramID, err)
	}

	return &user, nil
}
