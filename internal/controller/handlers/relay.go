package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/Freeeeeet/bridge_bot/internal/controller/state"
	"github.com/Freeeeeet/bridge_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleRelayMessage — диспетчер всех не-командных сообщений в личных чатах.
// Решает, кто пишет (куратор или студент), и запускает соответствующий
// маршрут ретрансляции.
func (h *Handlers) HandleRelayMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	msg := update.Message
	if msg.Chat.Type != models.ChatTypePrivate {
		return
	}
	// Неизвестные команды не ретранслируем
	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	senderID := msg.From.ID

	// Двухшаговый /to: куратор прислал сообщение для выбранного ученика
	if h.stateManager.GetState(senderID) == state.StateAwaitingDirect {
		h.finishDirectSend(ctx, b, msg)
		return
	}

	isCurator, err := h.relayService.IsCurator(ctx, senderID)
	if err != nil {
		h.logger.Error("Failed to classify sender", zap.Int64("telegram_id", senderID), zap.Error(err))
		h.sendError(ctx, b, msg.Chat.ID, service.ErrorMessage(err))
		return
	}

	if isCurator {
		h.relayFromCurator(ctx, b, msg)
		return
	}

	h.relayFromStudent(ctx, b, msg)
}

func (h *Handlers) relayFromStudent(ctx context.Context, b *bot.Bot, msg *models.Message) {
	err := h.relayService.RelayFromStudent(ctx, toServiceMessage(msg))
	if err != nil {
		var blocked *service.BlockedError
		if !errors.As(err, &blocked) && !errors.Is(err, service.ErrUnbound) {
			h.logger.Error("Failed to relay student message",
				zap.Int64("student_id", msg.From.ID),
				zap.Error(err),
			)
		}
		h.sendError(ctx, b, msg.Chat.ID, service.ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, "Отправлено куратору ✅")
}

func (h *Handlers) relayFromCurator(ctx context.Context, b *bot.Bot, msg *models.Message) {
	if msg.ReplyToMessage == nil {
		h.sendMessage(ctx, b, msg.Chat.ID,
			"Пожалуйста, ответьте на сообщение бота, чтобы отправить ученику, или используйте /to <тикет> <текст>.")
		return
	}

	err := h.relayService.RelayFromCurator(ctx, toServiceMessage(msg), msg.ReplyToMessage.ID)
	if err != nil {
		var blocked *service.BlockedError
		if !errors.As(err, &blocked) && !errors.Is(err, service.ErrUnknownThread) {
			h.logger.Error("Failed to relay curator reply",
				zap.Int64("curator_id", msg.From.ID),
				zap.Error(err),
			)
		}
		h.sendError(ctx, b, msg.Chat.ID, service.ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, "Отправлено студенту ✅")
}

// finishDirectSend завершает двухшаговый /to: текущее сообщение куратора
// целиком доставляется ранее выбранному ученику
func (h *Handlers) finishDirectSend(ctx context.Context, b *bot.Bot, msg *models.Message) {
	curatorID := msg.From.ID

	// Состояние сбрасываем в любом исходе: повторная попытка начинается с /to
	defer h.stateManager.ClearState(curatorID)

	target, ok := h.stateManager.GetData(curatorID, state.DataDirectTarget)
	if !ok {
		h.sendError(ctx, b, msg.Chat.ID, service.ErrorMessage(service.ErrStudentNotFound))
		return
	}
	studentID, ok := target.(int64)
	if !ok {
		h.logger.Error("Invalid direct target in dialog state", zap.Int64("curator_id", curatorID))
		h.sendError(ctx, b, msg.Chat.ID, service.ErrorMessage(service.ErrStudentNotFound))
		return
	}

	if err := h.relayService.SendDirect(ctx, curatorID, studentID, toServiceMessage(msg)); err != nil {
		h.sendError(ctx, b, msg.Chat.ID, service.ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, msg.Chat.ID, "Доставлено")
}
