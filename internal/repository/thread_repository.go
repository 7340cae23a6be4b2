package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateThread — попытка записать уже известный message_id.
// При корректной работе роутера такого не бывает: это сигнал бага,
// а не нормальная ошибка.
var ErrDuplicateThread = errors.New("thread entry already recorded")

type ThreadRepository struct {
	pool *pgxpool.Pool
}

func NewThreadRepository(pool *pgxpool.Pool) *ThreadRepository {
	return &ThreadRepository{pool: pool}
}

// Record запоминает, от какого студента пришла копия сообщения в чате куратора.
// Вызывается строго после успешной отправки копии.
func (r *ThreadRepository) Record(ctx context.Context, curatorChatID int64, messageID int, studentID int64) error {
	query := `
		INSERT INTO threads (curator_chat_id, message_id, student_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (curator_chat_id, message_id) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, curatorChatID, messageID, studentID)
	if err != nil {
		return fmt.Errorf("record thread: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrDuplicateThread
	}

	return nil
}

// Resolve находит студента по сообщению, на которое ответил куратор.
// Запись не удаляется: куратор может отвечать на одно сообщение несколько раз,
// ограничивает рост таблицы только EvictOlderThan.
func (r *ThreadRepository) Resolve(ctx context.Context, curatorChatID int64, messageID int) (int64, bool, error) {
	query := `
		SELECT student_id
		FROM threads
		WHERE curator_chat_id = $1 AND message_id = $2
	`

	var studentID int64
	err := r.pool.QueryRow(ctx, query, curatorChatID, messageID).Scan(&studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("resolve thread: %w", err)
	}

	return studentID, true, nil
}

// EvictOlderThan удаляет записи старше cutoff и возвращает их количество.
// Записи с created_at >= cutoff не трогаются.
func (r *ThreadRepository) EvictOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM threads WHERE created_at < $1`

	result, err := r.pool.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("evict threads: %w", err)
	}

	return result.RowsAffected(), nil
}
