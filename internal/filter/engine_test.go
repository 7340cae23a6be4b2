package filter

import (
	"context"
	"testing"

	"github.com/Freeeeeet/bridge_bot/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticRules struct {
	rules []model.FilterRule
}

func (s *staticRules) List(_ context.Context) ([]model.FilterRule, error) {
	return s.rules, nil
}

func newTestEngine(t *testing.T, rules ...model.FilterRule) *Engine {
	t.Helper()
	engine := NewEngine(&staticRules{rules: rules}, zap.NewNop())
	require.NoError(t, engine.Reload(context.Background()))
	return engine
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	phone := model.FilterRule{Pattern: `\+7\d{10}`, Reason: "phone"}
	mention := model.FilterRule{Pattern: `@\w+`, Reason: "mention"}
	input := "call me @bob at +71234567890"

	// Телефон первым — причина phone
	engine := newTestEngine(t, phone, mention)
	verdict := engine.Evaluate(input)
	require.True(t, verdict.Blocked)
	require.Equal(t, "phone", verdict.Reason)

	// Упоминание первым — причина mention
	engine = newTestEngine(t, mention, phone)
	verdict = engine.Evaluate(input)
	require.True(t, verdict.Blocked)
	require.Equal(t, "mention", verdict.Reason)
}

func TestEvaluateAllowsCleanText(t *testing.T) {
	engine := newTestEngine(t,
		model.FilterRule{Pattern: `@[A-Za-z0-9_]{3,32}`, Reason: "username"},
		model.FilterRule{Pattern: `\+?\d[\d\s\-]{7,}`, Reason: "phone"},
	)

	require.Equal(t, Allow, engine.Evaluate("привет, как дела с домашкой?"))
}

func TestEvaluateEmptyTextAllowed(t *testing.T) {
	engine := newTestEngine(t, model.FilterRule{Pattern: `.*`, Reason: "everything"})

	require.False(t, engine.Evaluate("").Blocked)
}

func TestEvaluateCaseInsensitive(t *testing.T) {
	engine := newTestEngine(t, model.FilterRule{Pattern: `telegram`, Reason: "platform"})

	require.True(t, engine.Evaluate("пишите мне в TELEGRAM").Blocked)
}

func TestReloadSkipsInvalidPatterns(t *testing.T) {
	engine := newTestEngine(t,
		model.FilterRule{Pattern: `[unclosed`, Reason: "broken"},
		model.FilterRule{Pattern: `@\w+`, Reason: "mention"},
	)

	// Сломанное правило пропущено, валидное работает
	require.Equal(t, 1, engine.RuleCount())
	verdict := engine.Evaluate("hi @bob")
	require.True(t, verdict.Blocked)
	require.Equal(t, "mention", verdict.Reason)
}

func TestReloadReplacesRules(t *testing.T) {
	source := &staticRules{rules: []model.FilterRule{
		{Pattern: `@\w+`, Reason: "mention"},
	}}
	engine := NewEngine(source, zap.NewNop())
	require.NoError(t, engine.Reload(context.Background()))
	require.True(t, engine.Evaluate("@bob").Blocked)

	source.rules = nil
	require.NoError(t, engine.Reload(context.Background()))
	require.False(t, engine.Evaluate("@bob").Blocked)
	require.Equal(t, 0, engine.RuleCount())
}
