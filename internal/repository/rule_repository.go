package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/bridge_bot/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RuleRepository struct {
	pool *pgxpool.Pool
}

func NewRuleRepository(pool *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{pool: pool}
}

// List возвращает правила фильтра в порядке применения
func (r *RuleRepository) List(ctx context.Context) ([]model.FilterRule, error) {
	query := `
		SELECT id, pattern, reason, position, created_at
		FROM filter_rules
		ORDER BY position, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list filter rules: %w", err)
	}
	defer rows.Close()

	var rules []model.FilterRule
	for rows.Next() {
		var rule model.FilterRule
		err := rows.Scan(&rule.ID, &rule.Pattern, &rule.Reason, &rule.Position, &rule.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan filter rule: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate filter rules: %w", err)
	}

	return rules, nil
}

// Add добавляет правило в конец списка
func (r *RuleRepository) Add(ctx context.Context, pattern, reason string) (*model.FilterRule, error) {
	query := `
		INSERT INTO filter_rules (pattern, reason, position)
		VALUES ($1, $2, COALESCE((SELECT MAX(position) FROM filter_rules), 0) + 1)
		RETURNING id, pattern, reason, position, created_at
	`

	var rule model.FilterRule
	err := r.pool.QueryRow(ctx, query, pattern, reason).Scan(
		&rule.ID,
		&rule.Pattern,
		&rule.Reason,
		&rule.Position,
		&rule.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("add filter rule: %w", err)
	}

	return &rule, nil
}

// Delete удаляет правило по id. Возвращает true, если правило существовало.
func (r *RuleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM filter_rules WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete filter rule: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
