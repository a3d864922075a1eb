package subscriptions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("subscriptions: not found")

type Repo struct{ db *pgxpool.Pool }

func NewRepo(db *pgxpool.Pool) *Repo { return &Repo{db: db} }

const selectCols = `id,user_id,name,amount,currency,billing_cycle,first_payment_date,created_at,updated_at`

func scanSubscription(row pgx.Row) (Subscription, error) {
	var s Subscription
	var cycle string
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.Amount,
		&s.Currency,
		&cycle,
		&s.FirstPaymentDate,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	s.Cycle = BillingCycle(cycle)
	return s, err
}

func (r *Repo) List(ctx context.Context, userID int64) ([]Subscription, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectCols+`
		FROM subscriptions
		WHERE user_id=$1
		ORDER BY name ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get возвращает nil, nil, если подписки нет или она чужая.
func (r *Repo) Get(ctx context.Context, userID, id int64) (*Subscription, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectCols+`
		FROM subscriptions
		WHERE id=$1 AND user_id=$2`, id, userID)
	s, err := scanSubscription(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repo) Add(ctx context.Context, s Subscription) (int64, error) {
	const q = `
INSERT INTO subscriptions (user_id, name, amount, currency, billing_cycle, first_payment_date)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, q,
		s.UserID, s.Name, s.Amount, s.Currency, string(s.Cycle), s.FirstPaymentDate,
	).Scan(&id)
	return id, err
}

func (r *Repo) Update(ctx context.Context, s Subscription) error {
	const q = `
UPDATE subscriptions
SET name=$3, amount=$4, currency=$5, billing_cycle=$6, first_payment_date=$7, updated_at=NOW()
WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Exec(ctx, q,
		s.ID, s.UserID, s.Name, s.Amount, s.Currency, string(s.Cycle), s.FirstPaymentDate,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM subscriptions WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
