package controller

import (
	"context"

	"github.com/Freeeeeet/bridge_bot/internal/config"
	"github.com/Freeeeeet/bridge_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/bridge_bot/internal/controller/handlers"
	"github.com/Freeeeeet/bridge_bot/internal/controller/state"
	"github.com/Freeeeeet/bridge_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	cfg *config.Config,
	userService *service.UserService,
	bindingService *service.BindingService,
	relayService *service.RelayService,
	ruleService *service.RuleService,
	logger *zap.Logger,
) *BotController {
	// Состояние диалогов (двухшаговый /to)
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		cfg,
		userService,
		bindingService,
		relayService,
		ruleService,
		stateManager,
		logger,
	)

	callbackHandler := callbacks.NewHandler(relayService, stateManager, logger)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Общие команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)

	// Команды администраторов
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/link", bot.MatchTypePrefix, c.handlers.HandleLink)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/unlink", bot.MatchTypePrefix, c.handlers.HandleUnlink)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/list", bot.MatchTypeExact, c.handlers.HandleList)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/patterns", bot.MatchTypeExact, c.handlers.HandlePatterns)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setpattern", bot.MatchTypePrefix, c.handlers.HandleSetPattern)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/delpattern", bot.MatchTypePrefix, c.handlers.HandleDelPattern)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/setdefaultcurator", bot.MatchTypePrefix, c.handlers.HandleSetDefaultCurator)

	// Команды кураторов
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/mystudents", bot.MatchTypeExact, c.handlers.HandleMyStudents)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/to", bot.MatchTypePrefix, c.handlers.HandleTo)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel_to", bot.MatchTypeExact, c.handlers.HandleCancelTo)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// HandleDefault принимает все сообщения, не совпавшие с командами:
// это ретранслируемый трафик (текст и любые медиа)
func (c *BotController) HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	c.handlers.HandleRelayMessage(ctx, b, update)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "mystudents", Description: "👥 Мои ученики (куратор)"},
		{Command: "to", Description: "✉️ Написать ученику напрямую (куратор)"},
		{Command: "cancel_to", Description: "🚫 Отменить отправку (куратор)"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
