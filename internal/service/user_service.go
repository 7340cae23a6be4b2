package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/bridge_bot/internal/model"
	"go.uber.org/zap"
)

// SeenStore — реестр первых контактов
type SeenStore interface {
	MarkSeen(ctx context.Context, user *model.SeenUser) (bool, error)
}

// UserService регистрирует первые контакты пользователей с ботом
type UserService struct {
	seen   SeenStore
	logger *zap.Logger
}

func NewUserService(seen SeenStore, logger *zap.Logger) *UserService {
	return &UserService{
		seen:   seen,
		logger: logger,
	}
}

// RegisterFirstContact записывает пользователя при первом обращении.
// Возвращает true, если пользователь новый — тогда об этом стоит
// уведомить админов (но не самого пользователя).
func (s *UserService) RegisterFirstContact(ctx context.Context, user *model.SeenUser) (bool, error) {
	isNew, err := s.seen.MarkSeen(ctx, user)
	if err != nil {
		return false, fmt.Errorf("register first contact: %w", err)
	}

	if isNew {
		s.logger.Info("New user seen",
			zap.Int64("telegram_id", user.TelegramID),
			zap.String("username", user.Username),
		)
	}

	return isNew, nil
}
