package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Rashidov21/queue-management-bot/internal/model"
	"github.com/Rashidov21/queue-management-bot/internal/repository"
)

func dueNotification(id, telegramID int64) *repository.DueNotification {
	return &repository.DueNotification{
		Notification: model.Notification{
			ID:      id,
			UserID:  42,
			Type:    model.NotificationQueueReminder1h,
			Message: "Your appointment is in 1 hour.",
		},
		TelegramID: telegramID,
	}
}

func TestSweep_DeliversDueNotifications(t *testing.T) {
	notifications := &mockNotificationStore{
		getDueFunc: func(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*repository.DueNotification, error) {
			return []*repository.DueNotification{
				dueNotification(1, 700),
				dueNotification(2, 701),
			}, nil
		},
	}
	var markedSent []int64
	notifications.markSentFunc = func(ctx context.Context, id int64, sentAt time.Time, via model.NotificationChannel) (bool, error) {
		markedSent = append(markedSent, id)
		if via != model.ChannelTelegram {
			t.Errorf("expected telegram channel, got %s", via)
		}
		return true, nil
	}
	messenger := &mockMessenger{}

	d := NewDispatcher(notifications, messenger, zap.NewNop(), DispatcherConfig{})

	result, err := d.Sweep(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sent != 2 || result.Failed != 0 {
		t.Fatalf("expected 2 sent / 0 failed, got %+v", result)
	}
	if len(messenger.sent) != 2 || messenger.sent[0] != 700 || messenger.sent[1] != 701 {
		t.Errorf("expected sends to chats [700 701], got %v", messenger.sent)
	}
	if len(markedSent) != 2 {
		t.Errorf("expected both rows marked sent, got %v", markedSent)
	}
}

func TestSweep_FailureDoesNotStopBatch(t *testing.T) {
	notifications := &mockNotificationStore{
		getDueFunc: func(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*repository.DueNotification, error) {
			return []*repository.DueNotification{
				dueNotification(1, 700),
				dueNotification(2, 701),
				dueNotification(3, 702),
			}, nil
		},
	}
	var failed []int64
	notifications.recordFailureFunc = func(ctx context.Context, id int64) error {
		failed = append(failed, id)
		return nil
	}
	messenger := &mockMessenger{
		sendFunc: func(ctx context.Context, chatID int64, text string) bool {
			return chatID != 701 // the middle recipient is unreachable
		},
	}

	d := NewDispatcher(notifications, messenger, zap.NewNop(), DispatcherConfig{})

	result, err := d.Sweep(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sent != 2 || result.Failed != 1 {
		t.Fatalf("expected 2 sent / 1 failed, got %+v", result)
	}
	if len(failed) != 1 || failed[0] != 2 {
		t.Errorf("expected failure recorded for row 2, got %v", failed)
	}
	// The failed row stays unsent; rows after it were still attempted.
	if len(messenger.sent) != 3 {
		t.Errorf("expected all 3 sends attempted, got %v", messenger.sent)
	}
}

func TestSweep_MissingTelegramIDCountsAsFailure(t *testing.T) {
	notifications := &mockNotificationStore{
		getDueFunc: func(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*repository.DueNotification, error) {
			return []*repository.DueNotification{dueNotification(1, 0)}, nil
		},
	}
	var failed []int64
	notifications.recordFailureFunc = func(ctx context.Context, id int64) error {
		failed = append(failed, id)
		return nil
	}
	messenger := &mockMessenger{}

	d := NewDispatcher(notifications, messenger, zap.NewNop(), DispatcherConfig{})

	result, err := d.Sweep(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("expected 1 failed, got %+v", result)
	}
	if len(messenger.sent) != 0 {
		t.Error("no send must be attempted without a chat id")
	}
	if len(failed) != 1 {
		t.Errorf("expected a recorded failure, got %v", failed)
	}
}

func TestSweep_RowClaimedByAnotherDispatcher(t *testing.T) {
	notifications := &mockNotificationStore{
		getDueFunc: func(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*repository.DueNotification, error) {
			return []*repository.DueNotification{dueNotification(1, 700)}, nil
		},
		markSentFunc: func(ctx context.Context, id int64, sentAt time.Time, via model.NotificationChannel) (bool, error) {
			return false, nil // a concurrent sweep flipped the row first
		},
	}
	messenger := &mockMessenger{}

	d := NewDispatcher(notifications, messenger, zap.NewNop(), DispatcherConfig{})

	result, err := d.Sweep(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sent != 0 || result.Failed != 0 {
		t.Fatalf("a row claimed elsewhere counts as neither sent nor failed, got %+v", result)
	}
}

func TestSweep_PassesAttemptCapToStore(t *testing.T) {
	var seenMaxAttempts, seenLimit int
	notifications := &mockNotificationStore{
		getDueFunc: func(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*repository.DueNotification, error) {
			seenMaxAttempts = maxAttempts
			seenLimit = limit
			return nil, nil
		},
	}

	d := NewDispatcher(notifications, &mockMessenger{}, zap.NewNop(), DispatcherConfig{MaxAttempts: 5, BatchSize: 10})

	if _, err := d.Sweep(context.Background(), time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seenMaxAttempts != 5 || seenLimit != 10 {
		t.Errorf("expected max attempts 5 and limit 10, got %d and %d", seenMaxAttempts, seenLimit)
	}
}

func TestSweep_EmptyQueue(t *testing.T) {
	d := NewDispatcher(&mockNotificationStore{}, &mockMessenger{}, zap.NewNop(), DispatcherConfig{})

	result, err := d.Sweep(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sent != 0 || result.Failed != 0 {
		t.Fatalf("expected an empty result, got %+v", result)
	}
}
