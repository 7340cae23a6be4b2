package callbacks

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/bridge_bot/internal/controller/state"
	"github.com/Freeeeeet/bridge_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Callback data constants
const (
	// ToCancel — отмена двухшаговой отправки /to
	ToCancel = "to_cancel"

	// RequestAssignment — куратор без учеников просит админов о назначении
	RequestAssignment = "request_assignment"
)

// Handler обрабатывает нажатия inline кнопок
type Handler struct {
	relayService *service.RelayService
	stateManager *state.Manager
	logger       *zap.Logger
}

// NewHandler создаёт обработчик callback query
func NewHandler(relayService *service.RelayService, stateManager *state.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		relayService: relayService,
		stateManager: stateManager,
		logger:       logger,
	}
}

// HandleCallbackQuery маршрутизирует callback по его data
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	// Отвечаем сразу, чтобы у пользователя не крутился спиннер
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})

	switch callback.Data {
	case ToCancel:
		h.handleToCancel(ctx, b, callback)
	case RequestAssignment:
		h.handleRequestAssignment(ctx, b, callback)
	default:
		h.logger.Warn("Unknown callback data", zap.String("data", callback.Data))
	}
}

func (h *Handler) handleToCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	h.stateManager.ClearState(callback.From.ID)

	if msg := messageFromCallback(callback); msg != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   "Операция отменена.",
		})
	}
}

func (h *Handler) handleRequestAssignment(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	note := fmt.Sprintf("Запрос назначения: куратор id=%d", callback.From.ID)
	if callback.From.Username != "" {
		note += fmt.Sprintf(", @%s", callback.From.Username)
	}
	h.relayService.NotifyAdmins(ctx, note)

	if msg := messageFromCallback(callback); msg != nil {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   "Админы уведомлены. Ожидайте назначения.",
		})
	}
}

// messageFromCallback извлекает сообщение из callback query
func messageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}
