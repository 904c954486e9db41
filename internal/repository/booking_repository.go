package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rashidov21/queue-management-bot/internal/model"
	"github.com/Rashidov21/queue-management-bot/internal/repository/base"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Create inserts a new booking. A unique-violation error here means the
// slot was claimed concurrently; callers detect it with base.IsUniqueViolation.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (client_id, provider_id, date, start_minute, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		booking.ClientID,
		booking.ProviderID,
		booking.Date,
		int(booking.Time),
		booking.Status,
		booking.Notes,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID returns the booking or nil when it does not exist.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	query := `
		SELECT id, client_id, provider_id, date, start_minute, status, notes, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking model.Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.ProviderID,
		&booking.Date,
		&booking.Time,
		&booking.Status,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// BlockedTimes returns the start times already claimed on the date by
// bookings in a blocking status (pending, confirmed or active).
func (r *BookingRepository) BlockedTimes(ctx context.Context, providerID int64, date time.Time) ([]model.TimeOfDay, error) {
	query := `
		SELECT start_minute
		FROM bookings
		WHERE provider_id = $1 AND date = $2
		  AND status IN ('pending', 'confirmed', 'active')
		ORDER BY start_minute
	`

	rows, err := r.pool.Query(ctx, query, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("get blocked times: %w", err)
	}
	defer rows.Close()

	var times []model.TimeOfDay
	for rows.Next() {
		var t model.TimeOfDay
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan blocked time: %w", err)
		}
		times = append(times, t)
	}

	return times, rows.Err()
}

// ExistsBlocking reports whether a blocking booking already claims the slot.
func (r *BookingRepository) ExistsBlocking(ctx context.Context, providerID int64, date time.Time, t model.TimeOfDay) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE provider_id = $1 AND date = $2 AND start_minute = $3
			  AND status IN ('pending', 'confirmed', 'active')
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, providerID, date, int(t)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slot taken: %w", err)
	}

	return exists, nil
}

// UpdateStatus moves the booking to a new status.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = now()
		WHERE id = $2
	`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("booking not found")
	}

	return nil
}

// GetByClientID returns all bookings made by the client, newest first.
func (r *BookingRepository) GetByClientID(ctx context.Context, clientID int64) ([]*model.Booking, error) {
	query := `
		SELECT id, client_id, provider_id, date, start_minute, status, notes, created_at, updated_at
		FROM bookings
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("get bookings by client: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetForProviderOnDate returns the provider's blocking bookings on the date,
// ordered by start time. Used for the daily digest.
func (r *BookingRepository) GetForProviderOnDate(ctx context.Context, providerID int64, date time.Time) ([]*model.Booking, error) {
	query := `
		SELECT id, client_id, provider_id, date, start_minute, status, notes, created_at, updated_at
		FROM bookings
		WHERE provider_id = $1 AND date = $2
		  AND status IN ('pending', 'confirmed', 'active')
		ORDER BY start_minute
	`

	rows, err := r.pool.Query(ctx, query, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("get bookings for provider on date: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetUpcoming returns blocking bookings dated within [from, to], ordered by
// date and time. Used by the planning sweep.
func (r *BookingRepository) GetUpcoming(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	query := `
		SELECT id, client_id, provider_id, date, start_minute, status, notes, created_at, updated_at
		FROM bookings
		WHERE date BETWEEN $1 AND $2
		  AND status IN ('pending', 'confirmed', 'active')
		ORDER BY date, start_minute
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get upcoming bookings: %w", err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func scanBookings(rows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
}) ([]*model.Booking, error) {
	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.ClientID,
			&booking.ProviderID,
			&booking.Date,
			&booking.Time,
			&booking.Status,
			&booking.Notes,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, rows.Err()
}
