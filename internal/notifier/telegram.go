package notifier

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// Telegram delivers notification messages over the bot API. It implements
// service.Messenger: every send is bounded by a timeout and failures come
// back as false, never as an error.
type Telegram struct {
	bot     *bot.Bot
	timeout time.Duration
	logger  *zap.Logger
}

func NewTelegram(b *bot.Bot, timeout time.Duration, logger *zap.Logger) *Telegram {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Telegram{
		bot:     b,
		timeout: timeout,
		logger:  logger,
	}
}

func (t *Telegram) Send(ctx context.Context, chatID int64, text string) bool {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		t.logger.Warn("Telegram send failed",
			zap.Error(err),
			zap.Int64("chat_id", chatID),
		)
		return false
	}

	return true
}
