package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rashidov21/queue-management-bot/internal/model"
)

type ServiceRepository struct {
	pool *pgxpool.Pool
}

func NewServiceRepository(pool *pgxpool.Pool) *ServiceRepository {
	return &ServiceRepository{pool: pool}
}

// Create inserts a new service definition.
func (r *ServiceRepository) Create(ctx context.Context, service *model.Service) error {
	query := `
		INSERT INTO services (name, description, duration_minutes, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		service.Name,
		service.Description,
		service.DurationMinutes,
		service.IsActive,
	).Scan(&service.ID, &service.CreatedAt)

	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	return nil
}

// GetAllActive returns the services providers can register for.
func (r *ServiceRepository) GetAllActive(ctx context.Context) ([]*model.Service, error) {
	query := `
		SELECT id, name, description, duration_minutes, is_active, created_at
		FROM services
		WHERE is_active = true
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active services: %w", err)
	}
	defer rows.Close()

	var services []*model.Service
	for rows.Next() {
		var s model.Service
		err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.DurationMinutes, &s.IsActive, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, &s)
	}

	return services, rows.Err()
}
