package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/Freeeeeet/bridge_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/bridge_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/bridge_bot/internal/controller/state"
	"github.com/Freeeeeet/bridge_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleMyStudents обрабатывает /mystudents — тикеты закреплённых учеников.
// Самообслуживание куратора, админских прав не требует.
func (h *Handlers) HandleMyStudents(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	curatorID := update.Message.From.ID
	roster, err := h.bindingService.Roster(ctx, curatorID)
	if err != nil {
		h.logger.Error("Failed to get roster", zap.Int64("curator_id", curatorID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	if len(roster) == 0 {
		kb := keyboard.NewBuilder().
			Row(keyboard.Button("Запросить назначение", callbacks.RequestAssignment)).
			Build()
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      update.Message.Chat.ID,
			Text:        "За вами не закреплено ни одного ученика.",
			ReplyMarkup: kb,
		})
		if err != nil {
			h.logger.Error("Failed to send empty roster", zap.Error(err))
		}
		return
	}

	// Показываем только тикеты — личность студентов скрыта и от куратора
	rows := make([]string, 0, len(roster))
	for _, binding := range roster {
		rows = append(rows, binding.Ticket)
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, strings.Join(rows, "\n"))
}

// HandleTo обрабатывает /to <student_id|тикет> [текст].
// С текстом — отправляет сразу; без текста — ждёт следующее сообщение
// (текст или медиа), которое целиком уйдёт выбранному ученику.
func (h *Handlers) HandleTo(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireCurator(ctx, b, update) {
		return
	}

	curatorID := update.Message.From.ID
	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Использование: /to <student_id|тикет> [текст]")
		return
	}

	studentID, err := h.bindingService.ResolveStudent(ctx, args[0])
	if err != nil {
		if !errors.Is(err, service.ErrStudentNotFound) {
			h.logger.Error("Failed to resolve student", zap.String("ident", args[0]), zap.Error(err))
		}
		h.sendError(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	// Режим 1: текст указан сразу после идентификатора
	if len(args) >= 2 {
		text := directSendText(update.Message.Text, args[0])
		if text == "" {
			h.sendMessage(ctx, b, update.Message.Chat.ID, "Укажите текст сообщения после идентификатора.")
			return
		}

		msg := service.Message{ChatID: update.Message.Chat.ID, Text: text}
		if err := h.relayService.SendDirect(ctx, curatorID, studentID, msg); err != nil {
			h.sendError(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
			return
		}

		h.sendMessage(ctx, b, update.Message.Chat.ID, "Доставлено")
		return
	}

	// Режим 2: ждём следующее сообщение любого типа
	h.stateManager.SetState(curatorID, state.StateAwaitingDirect)
	h.stateManager.SetData(curatorID, state.DataDirectTarget, studentID)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("Отмена", callbacks.ToCancel)).
		Build()
	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "Ок. Пришлите следующее сообщение (текст/фото/видео/голос/файл) — я отправлю его ученику. Для отмены: /cancel_to",
		ReplyMarkup: kb,
	})
	if err != nil {
		h.logger.Error("Failed to send /to prompt", zap.Error(err))
	}
}

// directSendText выделяет текст для немедленной отправки из
// "/to <ident> <текст>". Срезает команду и идентификатор целиком,
// лишние пробелы между ними в текст не попадают.
func directSendText(text, ident string) string {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "/to"))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ident))
	return rest
}

// HandleCancelTo обрабатывает /cancel_to — отмена двухшаговой отправки
func (h *Handlers) HandleCancelTo(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	h.stateManager.ClearState(update.Message.From.ID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "Отменено.")
}
