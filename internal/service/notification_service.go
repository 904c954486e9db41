package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rashidov21/queue-management-bot/internal/model"
)

// reminderOffsets is the fixed cascade of client reminders, largest first.
var reminderOffsets = []struct {
	Before time.Duration
	Type   model.NotificationType
	Label  string
}{
	{72 * time.Hour, model.NotificationQueueReminder72h, "72 hours"},
	{36 * time.Hour, model.NotificationQueueReminder36h, "36 hours"},
	{24 * time.Hour, model.NotificationQueueReminder24h, "24 hours"},
	{3 * time.Hour, model.NotificationQueueReminder3h, "3 hours"},
	{1 * time.Hour, model.NotificationQueueReminder1h, "1 hour"},
}

// providerReminderBefore is how far ahead the provider hears about the next
// appointment, and how far ahead of the first booking the daily digest fires.
const providerReminderBefore = time.Hour

// NotificationService plans reminder notifications for committed bookings
// and purges them on cancellation.
type NotificationService struct {
	notificationRepo NotificationStore
	bookingRepo      BookingStore
	providerRepo     ProviderStore
	userRepo         UserStore
	logger           *zap.Logger
	now              func() time.Time
}

func NewNotificationService(
	notificationRepo NotificationStore,
	bookingRepo BookingStore,
	providerRepo ProviderStore,
	userRepo UserStore,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		bookingRepo:      bookingRepo,
		providerRepo:     providerRepo,
		userRepo:         userRepo,
		logger:           logger,
		now:              time.Now,
	}
}

// ScheduleBookingNotifications persists the reminder cascade for a booking:
// one client reminder per offset and one provider reminder an hour ahead.
// Reminders whose fire time has already passed are skipped, not backfilled.
// No-op when the client has no reachable channel.
func (s *NotificationService) ScheduleBookingNotifications(ctx context.Context, booking *model.Booking) error {
	client, err := s.userRepo.GetByID(ctx, booking.ClientID)
	if err != nil {
		return fmt.Errorf("get client: %w", err)
	}
	if client == nil || !client.HasTelegram() {
		return nil
	}

	provider, err := s.providerRepo.GetByID(ctx, booking.ProviderID)
	if err != nil {
		return fmt.Errorf("get provider: %w", err)
	}
	if provider == nil {
		return ErrProviderNotFound
	}

	startsAt := booking.StartsAt()
	now := s.now()
	batchID := uuid.New()
	bookingID := booking.ID

	var notifications []*model.Notification
	for _, offset := range reminderOffsets {
		fireAt := startsAt.Add(-offset.Before)
		if !fireAt.After(now) {
			continue
		}
		at := fireAt
		notifications = append(notifications, &model.Notification{
			UserID:       client.ID,
			BookingID:    &bookingID,
			BatchID:      batchID,
			Type:         offset.Type,
			Title:        fmt.Sprintf("Appointment reminder - %s", offset.Label),
			Message: fmt.Sprintf("Hello %s! Your appointment is on %s at %s. %s left. Provider: %s.",
				client.FullName,
				booking.Date.Format("2006-01-02"),
				booking.Time,
				offset.Label,
				provider.User.FullName,
			),
			ScheduledFor: &at,
		})
	}

	if provider.User.HasTelegram() {
		fireAt := startsAt.Add(-providerReminderBefore)
		if fireAt.After(now) {
			at := fireAt
			notifications = append(notifications, &model.Notification{
				UserID:    provider.UserID,
				BookingID: &bookingID,
				BatchID:   batchID,
				Type:      model.NotificationProviderNextQueue,
				Title:     "Next appointment reminder",
				Message: fmt.Sprintf("Hello %s! Your next appointment is on %s at %s. Client: %s. 1 hour left.",
					provider.User.FullName,
					booking.Date.Format("2006-01-02"),
					booking.Time,
					client.FullName,
				),
				ScheduledFor: &at,
			})
		}
	}

	if len(notifications) == 0 {
		return nil
	}

	if err := s.notificationRepo.CreateBatch(ctx, notifications); err != nil {
		return fmt.Errorf("persist notifications: %w", err)
	}

	s.logger.Info("Scheduled booking notifications",
		zap.Int64("booking_id", booking.ID),
		zap.String("batch_id", batchID.String()),
		zap.Int("count", len(notifications)),
	)

	return nil
}

// ScheduleDailyDigest composes one message listing the provider's bookings
// for the date and schedules it an hour before the first one. Returns false
// when nothing was scheduled: no bookings, no reachable channel, the window
// already passed, or an unsent digest already exists for the date.
func (s *NotificationService) ScheduleDailyDigest(ctx context.Context, provider *model.Provider, date time.Time) (bool, error) {
	if provider.User == nil || !provider.User.HasTelegram() {
		return false, nil
	}

	bookings, err := s.bookingRepo.GetForProviderOnDate(ctx, provider.ID, date)
	if err != nil {
		return false, fmt.Errorf("get bookings for digest: %w", err)
	}
	if len(bookings) == 0 {
		return false, nil
	}

	fireAt := bookings[0].Time.At(date).Add(-providerReminderBefore)
	if !fireAt.After(s.now()) {
		return false, nil
	}

	exists, err := s.notificationRepo.HasUnsentDigest(ctx, provider.UserID, date)
	if err != nil {
		return false, fmt.Errorf("check existing digest: %w", err)
	}
	if exists {
		return false, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s! Today's appointments:\n\n", provider.User.FullName)
	for _, booking := range bookings {
		name := fmt.Sprintf("client #%d", booking.ClientID)
		if client, err := s.userRepo.GetByID(ctx, booking.ClientID); err == nil && client != nil {
			name = client.FullName
		}
		fmt.Fprintf(&b, "%s - %s (%s)\n", booking.Time, name, statusLabel(booking.Status))
	}

	digest := &model.Notification{
		UserID:       provider.UserID,
		BatchID:      uuid.New(),
		Type:         model.NotificationProviderTodayQueues,
		Title:        "Today's appointments",
		Message:      b.String(),
		ScheduledFor: &fireAt,
	}

	if err := s.notificationRepo.CreateBatch(ctx, []*model.Notification{digest}); err != nil {
		return false, fmt.Errorf("persist digest: %w", err)
	}

	s.logger.Info("Scheduled daily digest",
		zap.Int64("provider_id", provider.ID),
		zap.Time("date", date),
		zap.Int("bookings", len(bookings)),
	)

	return true, nil
}

// CancelBookingNotifications deletes the booking's unsent notifications.
// Already-sent rows stay behind as the audit trail.
func (s *NotificationService) CancelBookingNotifications(ctx context.Context, bookingID int64) error {
	deleted, err := s.notificationRepo.DeleteUnsentByBooking(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("delete unsent notifications: %w", err)
	}

	if deleted > 0 {
		s.logger.Info("Purged booking notifications",
			zap.Int64("booking_id", bookingID),
			zap.Int64("deleted", deleted),
		)
	}

	return nil
}

// UpdateBookingNotifications replaces the booking's pending notifications
// after its date or time changed: purge, then replan.
func (s *NotificationService) UpdateBookingNotifications(ctx context.Context, booking *model.Booking) error {
	if err := s.CancelBookingNotifications(ctx, booking.ID); err != nil {
		return err
	}
	return s.ScheduleBookingNotifications(ctx, booking)
}

// QueueImmediate persists a notification with no scheduled time; the next
// dispatch sweep delivers it.
func (s *NotificationService) QueueImmediate(ctx context.Context, userID int64, bookingID *int64, typ model.NotificationType, title, message string) error {
	n := &model.Notification{
		UserID:    userID,
		BookingID: bookingID,
		BatchID:   uuid.New(),
		Type:      typ,
		Title:     title,
		Message:   message,
	}

	if err := s.notificationRepo.CreateBatch(ctx, []*model.Notification{n}); err != nil {
		return fmt.Errorf("persist immediate notification: %w", err)
	}

	return nil
}

// PlanningSweep re-plans reminders for upcoming bookings that have none
// pending (e.g. planned before their windows opened, or whose planning
// failed at commit time) and schedules today's provider digests. Safe to
// run repeatedly: bookings with unsent rows are skipped.
func (s *NotificationService) PlanningSweep(ctx context.Context, now time.Time, horizonDays int) (int, error) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 0, horizonDays)

	bookings, err := s.bookingRepo.GetUpcoming(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("get upcoming bookings: %w", err)
	}

	scheduled := 0
	for _, booking := range bookings {
		if !booking.IsUpcoming(now) {
			continue
		}

		pending, err := s.notificationRepo.HasUnsentForBooking(ctx, booking.ID)
		if err != nil {
			s.logger.Error("Failed to check pending notifications",
				zap.Error(err),
				zap.Int64("booking_id", booking.ID),
			)
			continue
		}
		if pending {
			continue
		}

		if err := s.ScheduleBookingNotifications(ctx, booking); err != nil {
			s.logger.Error("Failed to replan booking notifications",
				zap.Error(err),
				zap.Int64("booking_id", booking.ID),
			)
			continue
		}
		scheduled++
	}

	providers, err := s.providerRepo.GetAllAccepting(ctx)
	if err != nil {
		return scheduled, fmt.Errorf("get providers for digests: %w", err)
	}

	for _, provider := range providers {
		ok, err := s.ScheduleDailyDigest(ctx, provider, from)
		if err != nil {
			s.logger.Error("Failed to schedule daily digest",
				zap.Error(err),
				zap.Int64("provider_id", provider.ID),
			)
			continue
		}
		if ok {
			scheduled++
		}
	}

	return scheduled, nil
}

func statusLabel(status model.BookingStatus) string {
	switch status {
	case model.BookingStatusPending:
		return "waiting"
	case model.BookingStatusConfirmed:
		return "confirmed"
	case model.BookingStatusActive:
		return "active"
	}
	return string(status)
}
