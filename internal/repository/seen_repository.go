package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/bridge_bot/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeenRepository — реестр первых контактов с ботом
type SeenRepository struct {
	pool *pgxpool.Pool
}

func NewSeenRepository(pool *pgxpool.Pool) *SeenRepository {
	return &SeenRepository{pool: pool}
}

// MarkSeen регистрирует пользователя при первом обращении.
// Возвращает true, если пользователь новый.
func (r *SeenRepository) MarkSeen(ctx context.Context, user *model.SeenUser) (bool, error) {
	query := `
		INSERT INTO seen_users (telegram_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (telegram_id) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, user.TelegramID, user.Username, user.FirstName, user.LastName)
	if err != nil {
		return false, fmt.Errorf("mark user seen: %w", err)
	}

	return result.RowsAffected() > 0, nil
}
