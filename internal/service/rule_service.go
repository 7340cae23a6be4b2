package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Freeeeeet/bridge_bot/internal/filter"
	"github.com/Freeeeeet/bridge_bot/internal/model"
	"go.uber.org/zap"
)

// RuleStore — хранилище правил контентного фильтра
type RuleStore interface {
	List(ctx context.Context) ([]model.FilterRule, error)
	Add(ctx context.Context, pattern, reason string) (*model.FilterRule, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ErrRuleIndex — нет правила с таким индексом
var ErrRuleIndex = fmt.Errorf("no filter rule at this index")

// RuleService управляет правилами фильтра и перезагружает движок
// после каждой мутации, чтобы /setpattern действовал немедленно
type RuleService struct {
	rules  RuleStore
	engine *filter.Engine
	logger *zap.Logger
}

func NewRuleService(rules RuleStore, engine *filter.Engine, logger *zap.Logger) *RuleService {
	return &RuleService{
		rules:  rules,
		engine: engine,
		logger: logger,
	}
}

// List возвращает правила в порядке применения
func (s *RuleService) List(ctx context.Context) ([]model.FilterRule, error) {
	return s.rules.List(ctx)
}

// Add валидирует и добавляет правило в конец списка.
// Некомпилирующийся regex отклоняется сразу, а не молча игнорируется
// при каждой проверке.
func (s *RuleService) Add(ctx context.Context, pattern, reason string) (*model.FilterRule, error) {
	if _, err := regexp.Compile("(?i)" + pattern); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	if reason == "" {
		reason = "banned pattern"
	}

	rule, err := s.rules.Add(ctx, pattern, reason)
	if err != nil {
		return nil, fmt.Errorf("add rule: %w", err)
	}

	if err := s.engine.Reload(ctx); err != nil {
		return nil, fmt.Errorf("reload filter: %w", err)
	}

	s.logger.Info("Filter rule added",
		zap.Int64("rule_id", rule.ID),
		zap.String("pattern", pattern),
	)

	return rule, nil
}

// DeleteByIndex удаляет правило по его позиции в выводе /patterns (с нуля)
func (s *RuleService) DeleteByIndex(ctx context.Context, index int) (*model.FilterRule, error) {
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}

	if index < 0 || index >= len(rules) {
		return nil, ErrRuleIndex
	}

	rule := rules[index]
	existed, err := s.rules.Delete(ctx, rule.ID)
	if err != nil {
		return nil, fmt.Errorf("delete rule: %w", err)
	}
	if !existed {
		return nil, ErrRuleIndex
	}

	if err := s.engine.Reload(ctx); err != nil {
		return nil, fmt.Errorf("reload filter: %w", err)
	}

	s.logger.Info("Filter rule deleted",
		zap.Int64("rule_id", rule.ID),
		zap.String("pattern", rule.Pattern),
	)

	return &rule, nil
}
