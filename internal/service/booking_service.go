package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Rashidov21/queue-management-bot/internal/model"
	"github.com/Rashidov21/queue-management-bot/internal/repository/base"
)

// Planner schedules and purges the notifications attached to a booking.
// BookingService treats planner failures on the create path as non-fatal:
// a booking must never fail because reminders could not be scheduled.
type Planner interface {
	ScheduleBookingNotifications(ctx context.Context, booking *model.Booking) error
	CancelBookingNotifications(ctx context.Context, bookingID int64) error
	QueueImmediate(ctx context.Context, userID int64, bookingID *int64, typ model.NotificationType, title, message string) error
}

// BookingService is the admission-control path: it validates booking
// requests and commits them against the slot uniqueness invariant.
type BookingService struct {
	userRepo     UserStore
	providerRepo ProviderStore
	bookingRepo  BookingStore
	planner      Planner
	logger       *zap.Logger
	now          func() time.Time
}

func NewBookingService(
	userRepo UserStore,
	providerRepo ProviderStore,
	bookingRepo BookingStore,
	planner Planner,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		userRepo:     userRepo,
		providerRepo: providerRepo,
		bookingRepo:  bookingRepo,
		planner:      planner,
		logger:       logger,
		now:          time.Now,
	}
}

type CreateBookingRequest struct {
	ClientID   int64
	ProviderID int64
	Date       time.Time
	Time       model.TimeOfDay
	Notes      string

	// Status is the initial status, chosen by the calling surface.
	// Empty defaults to pending.
	Status model.BookingStatus
}

// CreateBooking validates and commits a booking request. The pre-checks give
// specific errors; the partial unique index on (provider, date, time) is the
// authoritative guard against concurrent requests, and a lost race surfaces
// as the same ErrSlotTaken as the pre-check.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error) {
	provider, err := s.providerRepo.GetByID(ctx, req.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}
	if !provider.IsAccepting {
		return nil, ErrProviderNotAccepting
	}

	if !req.Time.At(req.Date).After(s.now()) {
		return nil, ErrPastBooking
	}

	client, err := s.userRepo.GetByID(ctx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	if client.IsProvider {
		return nil, ErrClientIsProvider
	}

	taken, err := s.bookingRepo.ExistsBlocking(ctx, req.ProviderID, req.Date, req.Time)
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if taken {
		return nil, ErrSlotTaken
	}

	status := req.Status
	if status == "" {
		status = model.BookingStatusPending
	}

	booking := &model.Booking{
		ClientID:   req.ClientID,
		ProviderID: req.ProviderID,
		Date:       req.Date,
		Time:       req.Time,
		Status:     status,
		Notes:      req.Notes,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if base.IsUniqueViolation(err) {
			// Lost the race between the free-slot check and the insert.
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	// The booking is committed; reminder scheduling must not undo that.
	if err := s.planner.ScheduleBookingNotifications(ctx, booking); err != nil {
		s.logger.Error("Failed to schedule booking notifications",
			zap.Error(err),
			zap.Int64("booking_id", booking.ID),
		)
	}

	s.logger.Info("Booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("client_id", booking.ClientID),
		zap.Int64("provider_id", booking.ProviderID),
		zap.Time("date", booking.Date),
		zap.String("time", booking.Time.String()),
		zap.String("status", string(booking.Status)),
	)

	return booking, nil
}

// CancelBooking cancels a booking on behalf of its client or its provider
// and purges the unsent notifications attached to it before returning, so
// future dispatch sweeps never pick them up.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, actorUserID int64) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return ErrBookingNotFound
	}

	provider, err := s.providerRepo.GetByID(ctx, booking.ProviderID)
	if err != nil {
		return fmt.Errorf("get provider: %w", err)
	}

	if booking.ClientID != actorUserID && (provider == nil || provider.UserID != actorUserID) {
		return ErrPermissionDenied
	}

	if !booking.CanBeCancelled() {
		return ErrNotCancellable
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, model.BookingStatusCancelled); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	if err := s.planner.CancelBookingNotifications(ctx, bookingID); err != nil {
		return fmt.Errorf("purge booking notifications: %w", err)
	}

	s.queueClientNotice(ctx, booking, model.NotificationBookingCancelled,
		"Booking cancelled",
		fmt.Sprintf("Your booking on %s at %s has been cancelled.",
			booking.Date.Format("2006-01-02"), booking.Time))

	s.logger.Info("Booking cancelled",
		zap.Int64("booking_id", bookingID),
		zap.Int64("actor_user_id", actorUserID),
	)

	return nil
}

// ConfirmBooking approves a pending booking. Provider action.
func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID, providerUserID int64) error {
	booking, err := s.authorizeProviderAction(ctx, bookingID, providerUserID)
	if err != nil {
		return err
	}

	if booking.Status != model.BookingStatusPending {
		return ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, model.BookingStatusConfirmed); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	s.queueClientNotice(ctx, booking, model.NotificationBookingConfirmed,
		"Booking confirmed",
		fmt.Sprintf("Your booking on %s at %s has been confirmed.",
			booking.Date.Format("2006-01-02"), booking.Time))

	s.logger.Info("Booking confirmed",
		zap.Int64("booking_id", bookingID),
		zap.Int64("provider_user_id", providerUserID),
	)

	return nil
}

// CompleteBooking closes out a confirmed or active booking. Provider action.
func (s *BookingService) CompleteBooking(ctx context.Context, bookingID, providerUserID int64) error {
	booking, err := s.authorizeProviderAction(ctx, bookingID, providerUserID)
	if err != nil {
		return err
	}

	if booking.Status != model.BookingStatusConfirmed && booking.Status != model.BookingStatusActive {
		return ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, model.BookingStatusCompleted); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	s.logger.Info("Booking completed", zap.Int64("booking_id", bookingID))
	return nil
}

// MarkNoShow records that the client did not turn up. Provider action.
func (s *BookingService) MarkNoShow(ctx context.Context, bookingID, providerUserID int64) error {
	booking, err := s.authorizeProviderAction(ctx, bookingID, providerUserID)
	if err != nil {
		return err
	}

	if !booking.CanBeCancelled() {
		return ErrInvalidTransition
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, model.BookingStatusNoShow); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	s.logger.Info("Booking marked as no-show", zap.Int64("booking_id", bookingID))
	return nil
}

// GetClientBookings returns all bookings made by the client.
func (s *BookingService) GetClientBookings(ctx context.Context, clientID int64) ([]*model.Booking, error) {
	bookings, err := s.bookingRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("get client bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) authorizeProviderAction(ctx context.Context, bookingID, providerUserID int64) (*model.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	provider, err := s.providerRepo.GetByID(ctx, booking.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}
	if provider == nil || provider.UserID != providerUserID {
		return nil, ErrPermissionDenied
	}

	return booking, nil
}

// queueClientNotice enqueues an immediate status notice for the client.
// Best effort: a failure here never fails the state transition.
func (s *BookingService) queueClientNotice(ctx context.Context, booking *model.Booking, typ model.NotificationType, title, message string) {
	id := booking.ID
	if err := s.planner.QueueImmediate(ctx, booking.ClientID, &id, typ, title, message); err != nil {
		s.logger.Error("Failed to queue booking notice",
			zap.Error(err),
			zap.Int64("booking_id", booking.ID),
			zap.String("type", string(typ)),
		)
	}
}
