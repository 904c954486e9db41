package service

import (
	"context"
	"time"

	"github.com/Rashidov21/queue-management-bot/internal/model"
	"github.com/Rashidov21/queue-management-bot/internal/repository"
)

type mockUserStore struct {
	getByIDFunc func(ctx context.Context, id int64) (*model.User, error)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

type mockProviderStore struct {
	getByIDFunc         func(ctx context.Context, id int64) (*model.Provider, error)
	getAllAcceptingFunc func(ctx context.Context) ([]*model.Provider, error)
}

func (m *mockProviderStore) GetByID(ctx context.Context, id int64) (*model.Provider, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockProviderStore) GetAllAccepting(ctx context.Context) ([]*model.Provider, error) {
	if m.getAllAcceptingFunc != nil {
		return m.getAllAcceptingFunc(ctx)
	}
	return nil, nil
}

type mockBookingStore struct {
	createFunc               func(ctx context.Context, booking *model.Booking) error
	getByIDFunc              func(ctx context.Context, id int64) (*model.Booking, error)
	blockedTimesFunc         func(ctx context.Context, providerID int64, date time.Time) ([]model.TimeOfDay, error)
	existsBlockingFunc       func(ctx context.Context, providerID int64, date time.Time, t model.TimeOfDay) (bool, error)
	updateStatusFunc         func(ctx context.Context, id int64, status model.BookingStatus) error
	getByClientIDFunc        func(ctx context.Context, clientID int64) ([]*model.Booking, error)
	getForProviderOnDateFunc func(ctx context.Context, providerID int64, date time.Time) ([]*model.Booking, error)
	getUpcomingFunc          func(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
}

func (m *mockBookingStore) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = 1
	return nil
}

func (m *mockBookingStore) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingStore) BlockedTimes(ctx context.Context, providerID int64, date time.Time) ([]model.TimeOfDay, error) {
	if m.blockedTimesFunc != nil {
		return m.blockedTimesFunc(ctx, providerID, date)
	}
	return nil, nil
}

func (m *mockBookingStore) ExistsBlocking(ctx context.Context, providerID int64, date time.Time, t model.TimeOfDay) (bool, error) {
	if m.existsBlockingFunc != nil {
		return m.existsBlockingFunc(ctx, providerID, date, t)
	}
	return false, nil
}

func (m *mockBookingStore) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingStore) GetByClientID(ctx context.Context, clientID int64) ([]*model.Booking, error) {
	if m.getByClientIDFunc != nil {
		return m.getByClientIDFunc(ctx, clientID)
	}
	return nil, nil
}

func (m *mockBookingStore) GetForProviderOnDate(ctx context.Context, providerID int64, date time.Time) ([]*model.Booking, error) {
	if m.getForProviderOnDateFunc != nil {
		return m.getForProviderOnDateFunc(ctx, providerID, date)
	}
	return nil, nil
}

func (m *mockBookingStore) GetUpcoming(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	if m.getUpcomingFunc != nil {
		return m.getUpcomingFunc(ctx, from, to)
	}
	return nil, nil
}

type mockNotificationStore struct {
	createBatchFunc           func(ctx context.Context, notifications []*model.Notification) error
	getDueFunc                func(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*repository.DueNotification, error)
	markSentFunc              func(ctx context.Context, id int64, sentAt time.Time, via model.NotificationChannel) (bool, error)
	recordFailureFunc         func(ctx context.Context, id int64) error
	deleteUnsentByBookingFunc func(ctx context.Context, bookingID int64) (int64, error)
	hasUnsentForBookingFunc   func(ctx context.Context, bookingID int64) (bool, error)
	hasUnsentDigestFunc       func(ctx context.Context, userID int64, date time.Time) (bool, error)
}

func (m *mockNotificationStore) CreateBatch(ctx context.Context, notifications []*model.Notification) error {
	if m.createBatchFunc != nil {
		return m.createBatchFunc(ctx, notifications)
	}
	return nil
}

func (m *mockNotificationStore) GetDue(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*repository.DueNotification, error) {
	if m.getDueFunc != nil {
		return m.getDueFunc(ctx, now, maxAttempts, limit)
	}
	return nil, nil
}

func (m *mockNotificationStore) MarkSent(ctx context.Context, id int64, sentAt time.Time, via model.NotificationChannel) (bool, error) {
	if m.markSentFunc != nil {
		return m.markSentFunc(ctx, id, sentAt, via)
	}
	return true, nil
}

func (m *mockNotificationStore) RecordFailure(ctx context.Context, id int64) error {
	if m.recordFailureFunc != nil {
		return m.recordFailureFunc(ctx, id)
	}
	return nil
}

func (m *mockNotificationStore) DeleteUnsentByBooking(ctx context.Context, bookingID int64) (int64, error) {
	if m.deleteUnsentByBookingFunc != nil {
		return m.deleteUnsentByBookingFunc(ctx, bookingID)
	}
	return 0, nil
}

func (m *mockNotificationStore) HasUnsentForBooking(ctx context.Context, bookingID int64) (bool, error) {
	if m.hasUnsentForBookingFunc != nil {
		return m.hasUnsentForBookingFunc(ctx, bookingID)
	}
	return false, nil
}

func (m *mockNotificationStore) HasUnsentDigest(ctx context.Context, userID int64, date time.Time) (bool, error) {
	if m.hasUnsentDigestFunc != nil {
		return m.hasUnsentDigestFunc(ctx, userID, date)
	}
	return false, nil
}

type mockPlanner struct {
	scheduleFunc func(ctx context.Context, booking *model.Booking) error
	cancelFunc   func(ctx context.Context, bookingID int64) error
	queueFunc    func(ctx context.Context, userID int64, bookingID *int64, typ model.NotificationType, title, message string) error
}

func (m *mockPlanner) ScheduleBookingNotifications(ctx context.Context, booking *model.Booking) error {
	if m.scheduleFunc != nil {
		return m.scheduleFunc(ctx, booking)
	}
	return nil
}

func (m *mockPlanner) CancelBookingNotifications(ctx context.Context, bookingID int64) error {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, bookingID)
	}
	return nil
}

func (m *mockPlanner) QueueImmediate(ctx context.Context, userID int64, bookingID *int64, typ model.NotificationType, title, message string) error {
	if m.queueFunc != nil {
		return m.queueFunc(ctx, userID, bookingID, typ, title, message)
	}
	return nil
}

type mockMessenger struct {
	sendFunc func(ctx context.Context, chatID int64, text string) bool
	sent     []int64
}

func (m *mockMessenger) Send(ctx context.Context, chatID int64, text string) bool {
	m.sent = append(m.sent, chatID)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, chatID, text)
	}
	return true
}
