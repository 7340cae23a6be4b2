package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/bridge_bot/internal/service"
	"go.uber.org/zap"
)

// Evictor периодически вычищает устаревшие маршруты ответов,
// чтобы таблица threads не росла бесконечно
type Evictor struct {
	relayService *service.RelayService
	interval     time.Duration
	logger       *zap.Logger
	stopChan     chan struct{}
}

// NewEvictor создаёт фоновую чистку маршрутов
func NewEvictor(relayService *service.RelayService, interval time.Duration, logger *zap.Logger) *Evictor {
	return &Evictor{
		relayService: relayService,
		interval:     interval,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start запускает фоновую задачу
func (e *Evictor) Start(ctx context.Context) {
	e.logger.Info("Starting thread evictor", zap.Duration("interval", e.interval))
	go e.run(ctx)
}

// Stop останавливает фоновую задачу
func (e *Evictor) Stop() {
	e.logger.Info("Stopping thread evictor")
	close(e.stopChan)
}

func (e *Evictor) run(ctx context.Context) {
	// Первый запуск сразу при старте
	e.evict(ctx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.evict(ctx)
		case <-e.stopChan:
			e.logger.Info("Thread eviction task stopped")
			return
		case <-ctx.Done():
			e.logger.Info("Thread eviction task cancelled")
			return
		}
	}
}

func (e *Evictor) evict(ctx context.Context) {
	count, err := e.relayService.EvictExpired(ctx)
	if err != nil {
		e.logger.Error("Failed to evict expired threads", zap.Error(err))
		return
	}

	if count > 0 {
		e.logger.Info("Expired reply threads evicted", zap.Int64("count", count))
	}
}
