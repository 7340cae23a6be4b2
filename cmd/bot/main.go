package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/bridge_bot/internal/app"
	"github.com/Freeeeeet/bridge_bot/internal/config"
	"github.com/Freeeeeet/bridge_bot/internal/controller"
	"github.com/Freeeeeet/bridge_bot/internal/filter"
	"github.com/Freeeeeet/bridge_bot/internal/repository"
	"github.com/Freeeeeet/bridge_bot/internal/service"
	"github.com/Freeeeeet/bridge_bot/internal/transport"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting anonymous bridge bot",
		zap.String("environment", cfg.Environment),
		zap.Int("admins", len(cfg.AdminIDs)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключаемся к БД
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	// Применяем миграции
	migrator, err := app.NewMigrator(pool, "migrations", logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории
	bindingRepo := repository.NewBindingRepository(pool)
	threadRepo := repository.NewThreadRepository(pool)
	ruleRepo := repository.NewRuleRepository(pool)
	settingsRepo := repository.NewSettingsRepository(pool)
	seenRepo := repository.NewSeenRepository(pool)

	// Контентный фильтр
	filterEngine := filter.NewEngine(ruleRepo, logger)
	if err := filterEngine.Reload(ctx); err != nil {
		logger.Fatal("Failed to load filter rules", zap.Error(err))
	}

	// Бот. Все не-командные сообщения — ретранслируемый трафик,
	// он идёт в default handler (контроллер подключается ниже).
	var botController *controller.BotController
	b, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(
		func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if botController != nil {
				botController.HandleDefault(ctx, b, update)
			}
		},
	))
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Сервисы
	tg := transport.NewTelegram(b)
	userService := service.NewUserService(seenRepo, logger)
	bindingService := service.NewBindingService(bindingRepo, cfg.TicketPrefix, logger)
	relayService := service.NewRelayService(
		tg,
		bindingService,
		threadRepo,
		settingsRepo,
		filterEngine,
		cfg.AdminIDs,
		cfg.ThreadTTL,
		logger,
	)
	ruleService := service.NewRuleService(ruleRepo, filterEngine, logger)

	botController = controller.NewBotController(
		b,
		cfg,
		userService,
		bindingService,
		relayService,
		ruleService,
		logger,
	)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	// Фоновая чистка устаревших маршрутов ответов
	evictor := app.NewEvictor(relayService, cfg.ThreadEvictInterval, logger)
	evictor.Start(ctx)
	defer evictor.Stop()

	if len(cfg.AdminIDs) > 0 {
		relayService.NotifyAdmins(ctx, "✅ Bot запущен")
	}

	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot shut down")
}
