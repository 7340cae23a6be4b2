package model

import "time"

// SeenUser — пользователь, впервые написавший боту.
// Используется только для уведомления админов о новых контактах,
// куратору эти данные никогда не показываются.
type SeenUser struct {
	TelegramID  int64     `json:"telegram_id"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	FirstSeenAt time.Time `json:"first_seen_at"`
}
