package quiz

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ResultEntry struct {
	UserID     int64
	Name       string
	Category   int
	Difficulty string
	Score      int
	Total      int
	CreatedAt  time.Time
}

type ResultsRepo struct{ pool *pgxpool.Pool }

func NewResultsRepo(pool *pgxpool.Pool) *ResultsRepo { return &ResultsRepo{pool: pool} }

func (r *ResultsRepo) Save(ctx context.Context, userID int64, category int, difficulty string, score, total int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO quiz_results (user_id, category, difficulty, score, total)
		VALUES ($1,$2,$3,$4,$5)
	`, userID, category, difficulty, score, total)
	return err
}

// Top лучший результат каждого игрока, по убыванию счёта.
func (r *ResultsRepo) Top(ctx context.Context, limit int) ([]ResultEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, name, category, difficulty, score, total, created_at FROM (
			SELECT r.user_id,
			       COALESCE(NULLIF(p.value, ''), NULLIF(u.first_name, ''), u.username) AS name,
			       r.category, r.difficulty, r.score, r.total, r.created_at,
			       ROW_NUMBER() OVER (PARTITION BY r.user_id ORDER BY r.score DESC, r.created_at) AS rn
			FROM quiz_results r
			JOIN users u ON u.id = r.user_id
			LEFT JOIN user_prefs p ON p.user_id = r.user_id AND p.key = 'username'
		) best
		WHERE rn = 1
		ORDER BY score DESC, created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultEntry
	for rows.Next() {
		var e ResultEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Category, &e.Difficulty, &e.Score, &e.Total, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
