package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationQueueReminder72h    NotificationType = "queue_reminder_72h"
	NotificationQueueReminder36h    NotificationType = "queue_reminder_36h"
	NotificationQueueReminder24h    NotificationType = "queue_reminder_24h"
	NotificationQueueReminder3h     NotificationType = "queue_reminder_3h"
	NotificationQueueReminder1h     NotificationType = "queue_reminder_1h"
	NotificationProviderNextQueue   NotificationType = "provider_next_queue"
	NotificationProviderTodayQueues NotificationType = "provider_today_queues"
	NotificationBookingConfirmed    NotificationType = "booking_confirmed"
	NotificationBookingCancelled    NotificationType = "booking_cancelled"
)

type NotificationChannel string

const (
	ChannelTelegram NotificationChannel = "telegram"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	BookingID *int64           `json:"booking_id"` // nil for provider digests
	BatchID   uuid.UUID        `json:"batch_id"`   // shared by rows planned together
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`

	// ScheduledFor is the earliest instant the row may be delivered.
	// nil means "send on the next sweep".
	ScheduledFor *time.Time          `json:"scheduled_for"`
	IsSent       bool                `json:"is_sent"`
	SentAt       *time.Time          `json:"sent_at"`
	SentVia      NotificationChannel `json:"sent_via"`
	Attempts     int                 `json:"attempts"`
	CreatedAt    time.Time           `json:"created_at"`
}

// IsDue reports whether the notification should be delivered at the given
// instant: never sent, and either immediate or past its scheduled time.
func (n *Notification) IsDue(now time.Time) bool {
	if n.IsSent {
		return false
	}
	return n.ScheduledFor == nil || !n.ScheduledFor.After(now)
}
