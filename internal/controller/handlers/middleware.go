package handlers

import (
	"context"

	"github.com/Freeeeeet/bridge_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireAdmin проверяет что отправитель — администратор.
// Неавторизованная попытка получает явный отказ, а не молчание.
func (h *Handlers) requireAdmin(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}

	if !h.cfg.IsAdmin(update.Message.From.ID) {
		h.logger.Warn("Unauthorized admin command",
			zap.Int64("telegram_id", update.Message.From.ID),
			zap.String("text", update.Message.Text),
		)
		h.sendError(ctx, b, update.Message.Chat.ID, service.ErrorMessage(service.ErrUnauthorized))
		return false
	}

	return true
}

// requireCurator проверяет что отправитель — куратор: за ним закреплён
// хотя бы один студент или он назначен запасным куратором
// (админам кураторские команды тоже доступны)
func (h *Handlers) requireCurator(ctx context.Context, b *bot.Bot, update *models.Update) bool {
	if update.Message == nil || update.Message.From == nil {
		return false
	}

	senderID := update.Message.From.ID
	if h.cfg.IsAdmin(senderID) {
		return true
	}

	isCurator, err := h.relayService.IsCurator(ctx, senderID)
	if err != nil {
		h.logger.Error("Failed to check curator", zap.Int64("telegram_id", senderID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return false
	}

	if !isCurator {
		h.sendError(ctx, b, update.Message.Chat.ID, service.ErrorMessage(service.ErrUnauthorized))
		return false
	}

	return true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendMessage(ctx, b, chatID, text)
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// toServiceMessage переводит Telegram-сообщение во входное сообщение роутера.
// Любое не-текстовое сообщение (фото, видео, голос, документ, стикер, контакт,
// геолокация, опрос и т.д.) доставляется копированием: перечислять типы
// контента бессмысленно, copyMessage переносит их все.
func toServiceMessage(msg *models.Message) service.Message {
	return service.Message{
		ChatID:   msg.Chat.ID,
		ID:       msg.ID,
		Text:     msg.Text,
		Caption:  msg.Caption,
		HasMedia: msg.Text == "",
	}
}
