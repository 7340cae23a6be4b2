package handlers

import (
	"github.com/Freeeeeet/bridge_bot/internal/config"
	"github.com/Freeeeeet/bridge_bot/internal/controller/state"
	"github.com/Freeeeeet/bridge_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	cfg            *config.Config
	userService    *service.UserService
	bindingService *service.BindingService
	relayService   *service.RelayService
	ruleService    *service.RuleService
	stateManager   *state.Manager
	logger         *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	cfg *config.Config,
	userService *service.UserService,
	bindingService *service.BindingService,
	relayService *service.RelayService,
	ruleService *service.RuleService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		cfg:            cfg,
		userService:    userService,
		bindingService: bindingService,
		relayService:   relayService,
		ruleService:    ruleService,
		stateManager:   stateManager,
		logger:         logger,
	}
}
