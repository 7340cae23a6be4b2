package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/bridge_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	user := update.Message.From

	// Первый контакт: тихо для пользователя, с уведомлением админам
	isNew, err := h.userService.RegisterFirstContact(ctx, &model.SeenUser{
		TelegramID: user.ID,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
	})
	if err != nil {
		h.logger.Error("Failed to register first contact", zap.Error(err))
	}

	if isNew {
		info := fmt.Sprintf("🔔 NEW USER: id=%d", user.ID)
		if user.Username != "" {
			info += fmt.Sprintf(", username=@%s", user.Username)
		}
		fullName := strings.TrimSpace(strings.Join([]string{user.FirstName, user.LastName}, " "))
		if fullName != "" {
			info += fmt.Sprintf(", name=%s", fullName)
		}
		h.relayService.NotifyAdmins(ctx, info)
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Бот-ретранслятор готов. Напишите сообщение — мы передадим куратору, не раскрывая ваш ник/номер.\n"+
			"Для справки: /help")
}

// HandleHelp обрабатывает команду /help — текст зависит от роли отправителя
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	senderID := update.Message.From.ID

	if h.cfg.IsAdmin(senderID) {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			"Админская справка:\n\n"+
				"— Управление связями ученик↔куратор:\n"+
				"/link <student_id> <curator_id>\n"+
				"/unlink <student_id>\n"+
				"/list\n\n"+
				"— Паттерны для блокировки:\n"+
				"/patterns\n"+
				"/setpattern <regex>\n"+
				"/delpattern <index>\n\n"+
				"/setdefaultcurator <curator_id>")
		return
	}

	isCurator, err := h.relayService.IsCurator(ctx, senderID)
	if err != nil {
		h.logger.Error("Failed to check curator for help", zap.Error(err))
	}

	if isCurator {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			"Справка куратора:\n\n"+
				"— Сообщения от закреплённых учеников приходят сюда анонимно.\n"+
				"— Чтобы ответить ученику, ответьте на сообщение бота.\n\n"+
				"Полезные команды:\n"+
				"/mystudents — список ваших учеников (тикеты)\n"+
				"/to <student_id|тикет> [текст] — отправить ученику напрямую\n"+
				"/cancel_to — отменить отправку")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Справка ученика:\n\n"+
			"— Пишите сюда: мы отправим ваше сообщение куратору анонимно.\n"+
			"— Если у вас ещё нет куратора — обратитесь к администратору.\n\n"+
			"Команды:\n"+
			"/help — показать эту подсказку")
}
