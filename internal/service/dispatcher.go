package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Rashidov21/queue-management-bot/internal/model"
)

// Dispatcher delivers due notifications through the Messenger. Multiple
// dispatcher instances may sweep concurrently; the conditional MarkSent
// update keeps delivery at most once per row.
type Dispatcher struct {
	notificationRepo NotificationStore
	messenger        Messenger
	logger           *zap.Logger
	maxAttempts      int
	batchSize        int
}

type DispatcherConfig struct {
	MaxAttempts int
	BatchSize   int
}

func NewDispatcher(notificationRepo NotificationStore, messenger Messenger, logger *zap.Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 25
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Dispatcher{
		notificationRepo: notificationRepo,
		messenger:        messenger,
		logger:           logger,
		maxAttempts:      cfg.MaxAttempts,
		batchSize:        cfg.BatchSize,
	}
}

type SweepResult struct {
	Sent   int
	Failed int
}

// Sweep sends every due notification once, earliest first. A failed send
// leaves the row pending for the next sweep and never stops the rest of the
// batch. Rows whose recipient keeps failing are dropped from the due set
// once they reach the attempt cap.
func (d *Dispatcher) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult

	due, err := d.notificationRepo.GetDue(ctx, now, d.maxAttempts, d.batchSize)
	if err != nil {
		return result, fmt.Errorf("get due notifications: %w", err)
	}

	for _, n := range due {
		if n.TelegramID == 0 {
			d.recordFailure(ctx, n.ID, n.Attempts)
			result.Failed++
			continue
		}

		if !d.messenger.Send(ctx, n.TelegramID, n.Message) {
			d.recordFailure(ctx, n.ID, n.Attempts)
			result.Failed++
			continue
		}

		flipped, err := d.notificationRepo.MarkSent(ctx, n.ID, now, model.ChannelTelegram)
		if err != nil {
			d.logger.Error("Failed to mark notification sent",
				zap.Error(err),
				zap.Int64("notification_id", n.ID),
			)
			result.Failed++
			continue
		}
		if !flipped {
			// Another dispatcher instance delivered it first.
			d.logger.Debug("Notification already delivered elsewhere",
				zap.Int64("notification_id", n.ID))
			continue
		}

		result.Sent++
	}

	if result.Sent > 0 || result.Failed > 0 {
		d.logger.Info("Dispatch sweep finished",
			zap.Int("sent", result.Sent),
			zap.Int("failed", result.Failed),
		)
	}

	return result, nil
}

func (d *Dispatcher) recordFailure(ctx context.Context, id int64, attempts int) {
	if err := d.notificationRepo.RecordFailure(ctx, id); err != nil {
		d.logger.Error("Failed to record delivery failure",
			zap.Error(err),
			zap.Int64("notification_id", id),
		)
		return
	}

	if attempts+1 >= d.maxAttempts {
		d.logger.Warn("Notification abandoned after repeated delivery failures",
			zap.Int64("notification_id", id),
			zap.Int("attempts", attempts+1),
		)
	}
}
