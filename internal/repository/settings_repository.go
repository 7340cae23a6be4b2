package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const settingDefaultCurator = "default_curator"

// SettingsRepository хранит изменяемые в рантайме настройки бота
type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// DefaultCurator возвращает запасного куратора. ok == false, если он не задан.
func (r *SettingsRepository) DefaultCurator(ctx context.Context) (int64, bool, error) {
	query := `SELECT value FROM bot_settings WHERE key = $1`

	var value string
	err := r.pool.QueryRow(ctx, query, settingDefaultCurator).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get default curator: %w", err)
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse default curator %q: %w", value, err)
	}

	return id, true, nil
}

// SetDefaultCurator задаёт запасного куратора
func (r *SettingsRepository) SetDefaultCurator(ctx context.Context, curatorID int64) error {
	query := `
		INSERT INTO bot_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = now()
	`

	_, err := r.pool.Exec(ctx, query, settingDefaultCurator, strconv.FormatInt(curatorID, 10))
	if err != nil {
		return fmt.Errorf("set default curator: %w", err)
	}

	return nil
}
