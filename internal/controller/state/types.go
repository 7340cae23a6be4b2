package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// StateAwaitingDirect — куратор вызвал /to без текста и бот ждёт
	// следующее сообщение (текст или медиа) для отправки студенту
	StateAwaitingDirect UserState = "awaiting_direct"
)

// Ключи временных данных диалога
const (
	DataDirectTarget = "direct_target" // int64 — id студента-получателя
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
