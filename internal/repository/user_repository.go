package repository

import (
	"context"
	"fmt"

	"github.com/Rashidov21/queue-management-bot/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rashidov21/queue-management-bot/internal/repository/base"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (telegram_id, username, full_name, is_provider)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		user.TelegramID,
		user.Username,
		user.FullName,
		user.IsProvider,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByID returns the user or nil when it does not exist.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, telegram_id, username, full_name, is_provider, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.TelegramID,
		&user.Username,
		&user.FullName,
		&user.IsProvider,
		&user.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

// SetIsProvider flips the provider flag. Provider accounts cannot book
// services, so this also changes what the booking path allows the user.
func (r *UserRepository) SetIsProvider(ctx context.Context, id int64, isProvider bool) error {
	query := `UPDATE users SET is_provider = $1 WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, isProvider, id)
	if err != nil {
		return fmt.Errorf("set user provider flag: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// GetByTelegramID returns the user linked to a telegram account, or nil.
func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	query := `
		SELECT id, telegram_id, username, full_name, is_provider, created_at
		FROM users
		WHERE telegram_id = $1
	`

	var user model.User
	err := r.pool.QueryRow(ctx, query, telegramID).Scan(
		&user.ID,
		&user.TelegramID,
		&user.Username,
		&user.FullName,
		&user.IsProvider,
		&user.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by telegram id: %w", err)
	}

	return &user, nil
}
