package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Rashidov21/queue-management-bot/internal/model"
)

// ScheduleService derives bookable slots from a provider's working schedule
// and the bookings already committed against it.
type ScheduleService struct {
	providerRepo ProviderStore
	bookingRepo  BookingStore
	logger       *zap.Logger
	now          func() time.Time
}

func NewScheduleService(providerRepo ProviderStore, bookingRepo BookingStore, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		providerRepo: providerRepo,
		bookingRepo:  bookingRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// CandidateSlots generates the provider's slot start times for a date:
// start_time, start_time+duration, ... while strictly before end_time.
// A non-working day yields an empty result, which is a legitimate answer,
// not an error. The last slot may run past end_time; only its start is
// bounded.
func (s *ScheduleService) CandidateSlots(provider *model.Provider, date time.Time) []model.TimeOfDay {
	if !provider.WorksOn(date) {
		return nil
	}

	duration := provider.Service.DurationMinutes
	if duration <= 0 {
		return nil
	}

	var slots []model.TimeOfDay
	for t := provider.StartTime; t < provider.EndTime; t = t.Add(duration) {
		slots = append(slots, t)
	}
	return slots
}

// AvailableSlots returns the bookable subset of the date's candidates: slots
// not claimed by a pending, confirmed or active booking, whose start is
// still in the future. Pure read, safe to call repeatedly.
func (s *ScheduleService) AvailableSlots(ctx context.Context, providerID int64, date time.Time) ([]model.TimeOfDay, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("get provider: %w", err)
	}
	if provider == nil {
		return nil, ErrProviderNotFound
	}

	candidates := s.CandidateSlots(provider, date)
	if len(candidates) == 0 {
		return nil, nil
	}

	blockedTimes, err := s.bookingRepo.BlockedTimes(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("get blocked times: %w", err)
	}

	blocked := make(map[model.TimeOfDay]bool, len(blockedTimes))
	for _, t := range blockedTimes {
		blocked[t] = true
	}

	now := s.now()
	var available []model.TimeOfDay
	for _, t := range candidates {
		if blocked[t] {
			continue
		}
		if !t.At(date).After(now) {
			continue
		}
		available = append(available, t)
	}

	return available, nil
}

// IsSlotFree reports whether no pending, confirmed or active booking claims
// the slot. This is the same blocking set the availability listing uses, so
// a slot shown as available is also admittable.
func (s *ScheduleService) IsSlotFree(ctx context.Context, providerID int64, date time.Time, t model.TimeOfDay) (bool, error) {
	taken, err := s.bookingRepo.ExistsBlocking(ctx, providerID, date, t)
	if err != nil {
		return false, fmt.Errorf("check slot: %w", err)
	}
	return !taken, nil
}
