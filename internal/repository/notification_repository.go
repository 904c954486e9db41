package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rashidov21/queue-management-bot/internal/model"
)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// CreateBatch inserts a set of planned notifications in one transaction,
// so a booking's reminder cascade is persisted all-or-nothing.
func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []*model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO notifications (user_id, booking_id, batch_id, type, title, message, scheduled_for)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	for _, n := range notifications {
		err := tx.QueryRow(
			ctx, query,
			n.UserID,
			n.BookingID,
			n.BatchID,
			n.Type,
			n.Title,
			n.Message,
			n.ScheduledFor,
		).Scan(&n.ID, &n.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// DueNotification is a due row joined with the recipient's telegram id.
type DueNotification struct {
	model.Notification
	TelegramID int64
}

// GetDue returns unsent notifications whose scheduled time has passed (or
// that are immediate), earliest first. Immediate rows sort ahead of
// scheduled ones. Rows at or past maxAttempts failed deliveries are
// excluded so a permanently unreachable recipient stops occupying sweeps.
func (r *NotificationRepository) GetDue(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*DueNotification, error) {
	query := `
		SELECT n.id, n.user_id, n.booking_id, n.batch_id, n.type, n.title, n.message,
		       n.scheduled_for, n.is_sent, n.sent_at, n.sent_via, n.attempts, n.created_at,
		       u.telegram_id
		FROM notifications n
		JOIN users u ON u.id = n.user_id
		WHERE n.is_sent = false
		  AND n.attempts < $2
		  AND (n.scheduled_for IS NULL OR n.scheduled_for <= $1)
		ORDER BY n.scheduled_for ASC NULLS FIRST, n.id
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, now, maxAttempts, limit)
	if err != nil {
		return nil, fmt.Errorf("get due notifications: %w", err)
	}
	defer rows.Close()

	return scanDue(rows)
}

// MarkSent flips is_sent exactly once. Returns false when another dispatcher
// instance already delivered the row (the conditional update matched nothing).
func (r *NotificationRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time, via model.NotificationChannel) (bool, error) {
	query := `
		UPDATE notifications
		SET is_sent = true, sent_at = $2, sent_via = $3
		WHERE id = $1 AND is_sent = false
	`

	tag, err := r.pool.Exec(ctx, query, id, sentAt, via)
	if err != nil {
		return false, fmt.Errorf("mark notification sent: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// RecordFailure increments the delivery attempt counter.
func (r *NotificationRepository) RecordFailure(ctx context.Context, id int64) error {
	query := `
		UPDATE notifications
		SET attempts = attempts + 1
		WHERE id = $1 AND is_sent = false
	`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("record notification failure: %w", err)
	}

	return nil
}

// DeleteUnsentByBooking purges pending notifications for a booking. Sent
// rows are kept as an audit trail.
func (r *NotificationRepository) DeleteUnsentByBooking(ctx context.Context, bookingID int64) (int64, error) {
	query := `
		DELETE FROM notifications
		WHERE booking_id = $1 AND is_sent = false
	`

	tag, err := r.pool.Exec(ctx, query, bookingID)
	if err != nil {
		return 0, fmt.Errorf("delete unsent notifications: %w", err)
	}

	return tag.RowsAffected(), nil
}

// HasUnsentForBooking reports whether the booking still has pending rows.
// The planning sweep uses this to avoid scheduling a cascade twice.
func (r *NotificationRepository) HasUnsentForBooking(ctx context.Context, bookingID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE booking_id = $1 AND is_sent = false
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, bookingID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check unsent notifications: %w", err)
	}

	return exists, nil
}

// HasUnsentDigest reports whether an undelivered daily digest already exists
// for the user on the given date.
func (r *NotificationRepository) HasUnsentDigest(ctx context.Context, userID int64, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND type = $2 AND is_sent = false
			  AND scheduled_for >= $3 AND scheduled_for < $4
		)
	`

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, model.NotificationProviderTodayQueues, dayStart, dayEnd).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check unsent digest: %w", err)
	}

	return exists, nil
}

func scanDue(rows pgx.Rows) ([]*DueNotification, error) {
	var due []*DueNotification
	for rows.Next() {
		var n DueNotification
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.BookingID,
			&n.BatchID,
			&n.Type,
			&n.Title,
			&n.Message,
			&n.ScheduledFor,
			&n.IsSent,
			&n.SentAt,
			&n.SentVia,
			&n.Attempts,
			&n.CreatedAt,
			&n.TelegramID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan due notification: %w", err)
		}
		due = append(due, &n)
	}

	return due, rows.Err()
}
