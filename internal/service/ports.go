package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/bridge_bot/internal/model"
)

// BindingStore — хранилище привязок студент↔куратор.
// Продакшен-реализация — repository.BindingRepository поверх Postgres.
type BindingStore interface {
	Link(ctx context.Context, studentID, curatorID int64, ticket string) error
	Unlink(ctx context.Context, studentID int64) (bool, error)
	CuratorFor(ctx context.Context, studentID int64) (*model.Binding, error)
	StudentsFor(ctx context.Context, curatorID int64) ([]model.Binding, error)
	All(ctx context.Context) ([]model.Binding, error)
	StudentByTicket(ctx context.Context, ticket string) (*model.Binding, error)
	IsCurator(ctx context.Context, curatorID int64) (bool, error)
}

// ThreadStore — хранилище маршрутов ответов куратора
type ThreadStore interface {
	Record(ctx context.Context, curatorChatID int64, messageID int, studentID int64) error
	Resolve(ctx context.Context, curatorChatID int64, messageID int) (int64, bool, error)
	EvictOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SettingsStore — изменяемые в рантайме настройки
type SettingsStore interface {
	DefaultCurator(ctx context.Context) (int64, bool, error)
	SetDefaultCurator(ctx context.Context, curatorID int64) error
}

// Transport — исходящая доставка через Telegram.
// Возвращает message_id отправленной копии: он нужен роутеру,
// чтобы запомнить маршрут ответа.
type Transport interface {
	SendText(ctx context.Context, chatID int64, text string) (int, error)
	CopyMessage(ctx context.Context, toChatID, fromChatID int64, messageID int) (int, error)
}
