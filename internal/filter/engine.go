package filter

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/Freeeeeet/bridge_bot/internal/model"
	"go.uber.org/zap"
)

// Verdict — результат проверки текста фильтром
type Verdict struct {
	Blocked bool
	Reason  string
	Pattern string
}

// Allow — вердикт "пропустить"
var Allow = Verdict{}

// Block создаёт вердикт блокировки
func Block(reason, pattern string) Verdict {
	return Verdict{Blocked: true, Reason: reason, Pattern: pattern}
}

// RuleSource отдаёт актуальный набор правил (обычно repository.RuleRepository)
type RuleSource interface {
	List(ctx context.Context) ([]model.FilterRule, error)
}

type compiledRule struct {
	re      *regexp.Regexp
	reason  string
	pattern string
}

// Engine проверяет текст сообщений по упорядоченному набору regex-правил.
// Набор перечитывается через Reload (при старте и после /setpattern, /delpattern),
// сама проверка чистая и потокобезопасная.
type Engine struct {
	source RuleSource
	logger *zap.Logger

	mu    sync.RWMutex
	rules []compiledRule
}

func NewEngine(source RuleSource, logger *zap.Logger) *Engine {
	return &Engine{
		source: source,
		logger: logger,
	}
}

// Reload перечитывает правила из источника и компилирует их.
// Некомпилирующиеся паттерны пропускаются с предупреждением, а не валят бота.
func (e *Engine) Reload(ctx context.Context) error {
	rules, err := e.source.List(ctx)
	if err != nil {
		return fmt.Errorf("load filter rules: %w", err)
	}

	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			e.logger.Warn("Skipping invalid filter pattern",
				zap.Int64("rule_id", rule.ID),
				zap.String("pattern", rule.Pattern),
				zap.Error(err),
			)
			continue
		}
		compiled = append(compiled, compiledRule{
			re:      re,
			reason:  rule.Reason,
			pattern: rule.Pattern,
		})
	}

	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()

	e.logger.Info("Filter rules loaded", zap.Int("count", len(compiled)))
	return nil
}

// Evaluate проверяет текст. Правила применяются в настроенном порядке,
// первое совпадение определяет причину блокировки. Пустой текст всегда Allow.
func (e *Engine) Evaluate(text string) Verdict {
	if text == "" {
		return Allow
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, rule := range e.rules {
		if rule.re.MatchString(text) {
			return Block(rule.reason, rule.pattern)
		}
	}

	return Allow
}

// RuleCount возвращает число активных (скомпилированных) правил
func (e *Engine) RuleCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.rules)
}
