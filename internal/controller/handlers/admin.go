package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/bridge_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleLink обрабатывает /link <student_id> <curator_id>
func (h *Handlers) HandleLink(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 2 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Использование: /link <student_id> <curator_id>")
		return
	}

	studentID, err1 := strconv.ParseInt(args[0], 10, 64)
	curatorID, err2 := strconv.ParseInt(args[1], 10, 64)
	if err1 != nil || err2 != nil {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Использование: /link <student_id> <curator_id>")
		return
	}

	binding, err := h.bindingService.Link(ctx, studentID, curatorID)
	if err != nil {
		h.logger.Error("Failed to link student", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("Связал %s (%d) → куратор %d", binding.Ticket, binding.StudentID, binding.CuratorID))
}

// HandleUnlink обрабатывает /unlink <student_id>
func (h *Handlers) HandleUnlink(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Использование: /unlink <student_id>")
		return
	}

	studentID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Использование: /unlink <student_id>")
		return
	}

	existed, err := h.bindingService.Unlink(ctx, studentID)
	if err != nil {
		h.logger.Error("Failed to unlink student", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	if existed {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Удалено")
	} else {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Не найдено")
	}
}

// HandleList обрабатывает /list — все привязки
func (h *Handlers) HandleList(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	bindings, err := h.bindingService.List(ctx)
	if err != nil {
		h.logger.Error("Failed to list bindings", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	if len(bindings) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Пусто")
		return
	}

	rows := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		rows = append(rows, fmt.Sprintf("%s: %d → %d", binding.Ticket, binding.StudentID, binding.CuratorID))
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, strings.Join(rows, "\n"))
}

// HandlePatterns обрабатывает /patterns — список правил фильтра
func (h *Handlers) HandlePatterns(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	rules, err := h.ruleService.List(ctx)
	if err != nil {
		h.logger.Error("Failed to list filter rules", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	if len(rules) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Список пуст")
		return
	}

	rows := make([]string, 0, len(rules))
	for i, rule := range rules {
		rows = append(rows, fmt.Sprintf("[%d] %s (%s)", i, rule.Pattern, rule.Reason))
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, strings.Join(rows, "\n"))
}

// HandleSetPattern обрабатывает /setpattern <regex>
func (h *Handlers) HandleSetPattern(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	pattern := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/setpattern"))
	if pattern == "" {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Использование: /setpattern <regex>")
		return
	}

	rule, err := h.ruleService.Add(ctx, pattern, "banned pattern")
	if err != nil {
		h.logger.Warn("Failed to add filter rule", zap.String("pattern", pattern), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Паттерн не добавлен: проверьте синтаксис regex.")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("Добавлен паттерн: %s", rule.Pattern))
}

// HandleDelPattern обрабатывает /delpattern <index>
func (h *Handlers) HandleDelPattern(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Использование: /delpattern <index>")
		return
	}

	index, err := strconv.Atoi(args[0])
	if err != nil {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Использование: /delpattern <index>")
		return
	}

	rule, err := h.ruleService.DeleteByIndex(ctx, index)
	if err != nil {
		if errors.Is(err, service.ErrRuleIndex) {
			h.sendMessage(ctx, b, update.Message.Chat.ID, "Нет такого индекса")
			return
		}
		h.logger.Error("Failed to delete filter rule", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("Удален паттерн: %s", rule.Pattern))
}

// HandleSetDefaultCurator обрабатывает /setdefaultcurator <curator_id>
func (h *Handlers) HandleSetDefaultCurator(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Использование: /setdefaultcurator <curator_id>")
		return
	}

	curatorID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Использование: /setdefaultcurator <curator_id>")
		return
	}

	if err := h.relayService.SetDefaultCurator(ctx, curatorID); err != nil {
		h.logger.Error("Failed to set default curator", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, service.ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("default_curator = %d", curatorID))
}

// commandArgs возвращает аргументы команды: "/link 1 2" -> ["1", "2"]
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}
