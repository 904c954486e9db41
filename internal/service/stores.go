package service

import (
	"context"
	"time"

	"github.com/Rashidov21/queue-management-bot/internal/model"
	"github.com/Rashidov21/queue-management-bot/internal/repository"
)

// Per-entity store contracts consumed by the services. Implemented by the
// pgx repositories in internal/repository; tests substitute in-memory mocks.

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

type ProviderStore interface {
	GetByID(ctx context.Context, id int64) (*model.Provider, error)
	GetAllAccepting(ctx context.Context) ([]*model.Provider, error)
}

type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
	BlockedTimes(ctx context.Context, providerID int64, date time.Time) ([]model.TimeOfDay, error)
	ExistsBlocking(ctx context.Context, providerID int64, date time.Time, t model.TimeOfDay) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error
	GetByClientID(ctx context.Context, clientID int64) ([]*model.Booking, error)
	GetForProviderOnDate(ctx context.Context, providerID int64, date time.Time) ([]*model.Booking, error)
	GetUpcoming(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
}

type NotificationStore interface {
	CreateBatch(ctx context.Context, notifications []*model.Notification) error
	GetDue(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*repository.DueNotification, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time, via model.NotificationChannel) (bool, error)
	RecordFailure(ctx context.Context, id int64) error
	DeleteUnsentByBooking(ctx context.Context, bookingID int64) (int64, error)
	HasUnsentForBooking(ctx context.Context, bookingID int64) (bool, error)
	HasUnsentDigest(ctx context.Context, userID int64, date time.Time) (bool, error)
}

// Messenger is the outbound delivery boundary. Send resolves within a
// bounded timeout and reports failure as false, never as an error.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string) bool
}
