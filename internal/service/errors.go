package service

import (
	"errors"
	"fmt"
)

// Общие ошибки маршрутизации
var (
	ErrUnauthorized    = errors.New("sender is not permitted to perform this action")
	ErrUnbound         = errors.New("student has no curator and no default curator is configured")
	ErrUnknownThread   = errors.New("reply does not match a known relayed message")
	ErrStudentNotFound = errors.New("student not found")
	ErrNotCurator      = errors.New("sender has no assigned students")
)

// BlockedError — сообщение отклонено контентным фильтром
type BlockedError struct {
	Reason  string
	Pattern string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("message blocked by filter: %s", e.Reason)
}

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var blocked *BlockedError
	switch {
	case errors.As(err, &blocked):
		return "⛔ Сообщение не отправлено: текст содержит запрещённые данные (например, ник или номер телефона)."
	case errors.Is(err, ErrUnauthorized):
		return "❌ У вас недостаточно прав для этой команды."
	case errors.Is(err, ErrUnbound):
		return "❌ У вас пока нет куратора. Обратитесь к администратору."
	case errors.Is(err, ErrUnknownThread):
		return "❌ Не удалось определить получателя. Ответьте на сообщение бота или используйте /to <тикет> <текст>."
	case errors.Is(err, ErrStudentNotFound):
		return "❌ Ученик с таким идентификатором не найден."
	case errors.Is(err, ErrNotCurator):
		return "❌ За вами не закреплено ни одного ученика."
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}
