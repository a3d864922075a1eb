package prefs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo key-value настройки пользователя (таблица user_prefs).
type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func (r *Repo) Get(ctx context.Context, userID int64, key string) (string, bool, error) {
	var v string
	err := r.pool.QueryRow(ctx,
		`SELECT value FROM user_prefs WHERE user_id = $1 AND key = $2`,
		userID, key,
	).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (r *Repo) Set(ctx context.Context, userID int64, key, value string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_prefs (user_id, key, value)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, userID, key, value)
	return err
}

// SetMany пишет несколько ключей одной транзакцией.
func (r *Repo) SetMany(ctx context.Context, userID int64, kv map[string]string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for k, v := range kv {
		if _, err := tx.Exec(ctx, `
			INSERT INTO user_prefs (user_id, key, value)
			VALUES ($1,$2,$3)
			ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		`, userID, k, v); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}
