package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/bridge_bot/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BindingRepository struct {
	pool *pgxpool.Pool
}

func NewBindingRepository(pool *pgxpool.Pool) *BindingRepository {
	return &BindingRepository{pool: pool}
}

// Link привязывает студента к куратору. Повторный вызов для того же студента
// заменяет привязку целиком (у студента всегда не больше одного куратора).
// Один UPSERT — атомарный коммит по ключу, гонки между параллельными link
// разруливает сама БД.
func (r *BindingRepository) Link(ctx context.Context, studentID, curatorID int64, ticket string) error {
	query := `
		INSERT INTO bindings (student_id, curator_id, ticket)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id) DO UPDATE
		SET curator_id = EXCLUDED.curator_id,
		    ticket = EXCLUDED.ticket,
		    linked_at = now()
	`

	_, err := r.pool.Exec(ctx, query, studentID, curatorID, ticket)
	if err != nil {
		return fmt.Errorf("link student: %w", err)
	}

	return nil
}

// Unlink удаляет привязку студента. Возвращает true, если привязка существовала.
func (r *BindingRepository) Unlink(ctx context.Context, studentID int64) (bool, error) {
	query := `DELETE FROM bindings WHERE student_id = $1`

	result, err := r.pool.Exec(ctx, query, studentID)
	if err != nil {
		return false, fmt.Errorf("unlink student: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// CuratorFor возвращает привязку студента или nil, если её нет
func (r *BindingRepository) CuratorFor(ctx context.Context, studentID int64) (*model.Binding, error) {
	query := `
		SELECT student_id, curator_id, ticket, linked_at
		FROM bindings
		WHERE student_id = $1
	`

	var b model.Binding
	err := r.pool.QueryRow(ctx, query, studentID).Scan(
		&b.StudentID,
		&b.CuratorID,
		&b.Ticket,
		&b.LinkedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get binding: %w", err)
	}

	return &b, nil
}

// StudentsFor возвращает привязки всех студентов куратора в порядке привязки
func (r *BindingRepository) StudentsFor(ctx context.Context, curatorID int64) ([]model.Binding, error) {
	query := `
		SELECT student_id, curator_id, ticket, linked_at
		FROM bindings
		WHERE curator_id = $1
		ORDER BY linked_at, student_id
	`

	rows, err := r.pool.Query(ctx, query, curatorID)
	if err != nil {
		return nil, fmt.Errorf("get curator students: %w", err)
	}
	defer rows.Close()

	return scanBindings(rows)
}

// All возвращает все привязки (для админского /list)
func (r *BindingRepository) All(ctx context.Context) ([]model.Binding, error) {
	query := `
		SELECT student_id, curator_id, ticket, linked_at
		FROM bindings
		ORDER BY linked_at, student_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bindings: %w", err)
	}
	defer rows.Close()

	return scanBindings(rows)
}

// StudentByTicket находит студента по анонимному тикету (для /to S1234)
func (r *BindingRepository) StudentByTicket(ctx context.Context, ticket string) (*model.Binding, error) {
	query := `
		SELECT student_id, curator_id, ticket, linked_at
		FROM bindings
		WHERE ticket = $1
	`

	var b model.Binding
	err := r.pool.QueryRow(ctx, query, ticket).Scan(
		&b.StudentID,
		&b.CuratorID,
		&b.Ticket,
		&b.LinkedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get binding by ticket: %w", err)
	}

	return &b, nil
}

// IsCurator проверяет, есть ли у пользователя хотя бы один привязанный студент
func (r *BindingRepository) IsCurator(ctx context.Context, curatorID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM bindings WHERE curator_id = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, curatorID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check curator: %w", err)
	}

	return exists, nil
}

func scanBindings(rows pgx.Rows) ([]model.Binding, error) {
	var bindings []model.Binding
	for rows.Next() {
		var b model.Binding
		err := rows.Scan(&b.StudentID, &b.CuratorID, &b.Ticket, &b.LinkedAt)
		if err != nil {
			return nil, fmt.Errorf("scan binding: %w", err)
		}
		bindings = append(bindings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bindings: %w", err)
	}

	return bindings, nil
}
