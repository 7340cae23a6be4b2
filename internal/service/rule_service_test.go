package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Freeeeeet/bridge_bot/internal/filter"
	"github.com/Freeeeeet/bridge_bot/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memRules — in-memory реализация RuleStore, она же источник правил
// для движка фильтра в тестах
type memRules struct {
	mu     sync.Mutex
	rules  []model.FilterRule
	nextID int64
}

func (s *memRules) List(_ context.Context) ([]model.FilterRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.FilterRule, len(s.rules))
	copy(out, s.rules)
	return out, nil
}

func (s *memRules) Add(_ context.Context, pattern, reason string) (*model.FilterRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	rule := model.FilterRule{
		ID:       s.nextID,
		Pattern:  pattern,
		Reason:   reason,
		Position: len(s.rules),
	}
	s.rules = append(s.rules, rule)
	return &rule, nil
}

func (s *memRules) Delete(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rule := range s.rules {
		if rule.ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newTestRuleService(t *testing.T) (*RuleService, *filter.Engine) {
	t.Helper()

	store := &memRules{}
	engine := filter.NewEngine(store, zap.NewNop())
	require.NoError(t, engine.Reload(context.Background()))
	return NewRuleService(store, engine, zap.NewNop()), engine
}

func TestRuleAddTakesEffectImmediately(t *testing.T) {
	ctx := context.Background()
	svc, engine := newTestRuleService(t)

	require.False(t, engine.Evaluate("пишите в telegram").Blocked)

	rule, err := svc.Add(ctx, `telegram`, "platform")
	require.NoError(t, err)
	require.Equal(t, "platform", rule.Reason)

	verdict := engine.Evaluate("пишите в TELEGRAM")
	require.True(t, verdict.Blocked)
	require.Equal(t, "platform", verdict.Reason)
}

func TestRuleAddRejectsInvalidRegex(t *testing.T) {
	ctx := context.Background()
	svc, engine := newTestRuleService(t)

	_, err := svc.Add(ctx, `[unclosed`, "broken")
	require.Error(t, err)

	// Невалидное правило не попало ни в хранилище, ни в движок
	rules, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, rules)
	require.Equal(t, 0, engine.RuleCount())
}

func TestRuleAddDefaultsEmptyReason(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRuleService(t)

	rule, err := svc.Add(ctx, `@\w+`, "")
	require.NoError(t, err)
	require.Equal(t, "banned pattern", rule.Reason)
}

func TestRuleDeleteByIndex(t *testing.T) {
	ctx := context.Background()
	svc, engine := newTestRuleService(t)

	_, err := svc.Add(ctx, `@\w+`, "mention")
	require.NoError(t, err)
	_, err = svc.Add(ctx, `\+7\d{10}`, "phone")
	require.NoError(t, err)

	deleted, err := svc.DeleteByIndex(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, "mention", deleted.Reason)

	// Осталось только второе правило, движок перезагружен
	rules, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.Equal(t, "phone", rules[0].Reason)

	require.False(t, engine.Evaluate("hi @bob").Blocked)
	require.True(t, engine.Evaluate("+71234567890").Blocked)
}

func TestRuleDeleteByIndexOutOfBounds(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestRuleService(t)

	_, err := svc.Add(ctx, `@\w+`, "mention")
	require.NoError(t, err)

	_, err = svc.DeleteByIndex(ctx, 5)
	require.True(t, errors.Is(err, ErrRuleIndex))

	_, err = svc.DeleteByIndex(ctx, -1)
	require.True(t, errors.Is(err, ErrRuleIndex))
}
