package model

import "time"

// ThreadEntry — маршрут ответа: какая копия сообщения в чате куратора
// пришла от какого студента. Telegram message_id уникален только внутри
// чата, поэтому ключ составной (curator_chat_id, message_id).
type ThreadEntry struct {
	CuratorChatID int64     `json:"curator_chat_id"`
	MessageID     int       `json:"message_id"`
	StudentID     int64     `json:"student_id"`
	CreatedAt     time.Time `json:"created_at"`
}
