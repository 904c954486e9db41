package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rashidov21/queue-management-bot/internal/model"
	"github.com/Rashidov21/queue-management-bot/internal/repository/base"
)

type ProviderRepository struct {
	pool *pgxpool.Pool
}

func NewProviderRepository(pool *pgxpool.Pool) *ProviderRepository {
	return &ProviderRepository{pool: pool}
}

const providerColumns = `
	p.id, p.user_id, p.service_id, p.working_days, p.start_minute, p.end_minute,
	p.location, p.is_accepting, p.description, p.created_at,
	u.id, u.telegram_id, u.username, u.full_name, u.is_provider, u.created_at,
	s.id, s.name, s.description, s.duration_minutes, s.is_active, s.created_at
`

func scanProvider(row interface{ Scan(...interface{}) error }) (*model.Provider, error) {
	var (
		p    model.Provider
		u    model.User
		s    model.Service
		days []string
	)

	err := row.Scan(
		&p.ID, &p.UserID, &p.ServiceID, &days, &p.StartTime, &p.EndTime,
		&p.Location, &p.IsAccepting, &p.Description, &p.CreatedAt,
		&u.ID, &u.TelegramID, &u.Username, &u.FullName, &u.IsProvider, &u.CreatedAt,
		&s.ID, &s.Name, &s.Description, &s.DurationMinutes, &s.IsActive, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.WorkingDays = make([]model.Weekday, 0, len(days))
	for _, d := range days {
		p.WorkingDays = append(p.WorkingDays, model.Weekday(d))
	}
	p.User = &u
	p.Service = &s
	return &p, nil
}

// Create inserts a new provider profile.
func (r *ProviderRepository) Create(ctx context.Context, provider *model.Provider) error {
	query := `
		INSERT INTO providers (user_id, service_id, working_days, start_minute, end_minute, location, is_accepting, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	days := make([]string, 0, len(provider.WorkingDays))
	for _, d := range provider.WorkingDays {
		days = append(days, string(d))
	}

	err := r.pool.QueryRow(
		ctx, query,
		provider.UserID,
		provider.ServiceID,
		days,
		int(provider.StartTime),
		int(provider.EndTime),
		provider.Location,
		provider.IsAccepting,
		provider.Description,
	).Scan(&provider.ID, &provider.CreatedAt)

	if err != nil {
		return fmt.Errorf("create provider: %w", err)
	}

	return nil
}

// GetByID returns the provider with its user and service, or nil.
func (r *ProviderRepository) GetByID(ctx context.Context, id int64) (*model.Provider, error) {
	query := `
		SELECT ` + providerColumns + `
		FROM providers p
		JOIN users u ON u.id = p.user_id
		JOIN services s ON s.id = p.service_id
		WHERE p.id = $1
	`

	provider, err := scanProvider(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get provider by id: %w", err)
	}

	return provider, nil
}

// GetAllAccepting returns providers currently accepting bookings.
func (r *ProviderRepository) GetAllAccepting(ctx context.Context) ([]*model.Provider, error) {
	query := `
		SELECT ` + providerColumns + `
		FROM providers p
		JOIN users u ON u.id = p.user_id
		JOIN services s ON s.id = p.service_id
		WHERE p.is_accepting = true
		ORDER BY u.username
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get accepting providers: %w", err)
	}
	defer rows.Close()

	var providers []*model.Provider
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		providers = append(providers, provider)
	}

	return providers, rows.Err()
}

// SetAccepting toggles whether the provider takes new bookings.
func (r *ProviderRepository) SetAccepting(ctx context.Context, id int64, accepting bool) error {
	query := `UPDATE providers SET is_accepting = $1 WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, accepting, id)
	if err != nil {
		return fmt.Errorf("set provider accepting: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("provider not found")
	}

	return nil
}
