package model

import "time"

// FilterRule — запрещённый паттерн (regex) с причиной блокировки.
// Правила применяются в порядке Position, первое совпадение решает.
type FilterRule struct {
	ID        int64     `json:"id"`
	Pattern   string    `json:"pattern"`
	Reason    string    `json:"reason"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}
