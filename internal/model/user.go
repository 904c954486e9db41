package model

import "time"

type User struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"`
	IsProvider bool      `json:"is_provider"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasTelegram reports whether the user can be reached over the bot.
func (u *User) HasTelegram() bool {
	return u.TelegramID != 0
}
