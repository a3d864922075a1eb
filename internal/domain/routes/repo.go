package routes

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("routes: not found")

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// CreateWithPoint создаёт маршрут и его первую точку в одной транзакции.
func (r *Repo) CreateWithPoint(ctx context.Context, userID int64, name string, lat, lon float64) (int64, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return 0, err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var routeID int64
	if err := tx.QueryRow(ctx, `
		INSERT INTO routes (user_id, name) VALUES ($1,$2) RETURNING id
	`, userID, name).Scan(&routeID); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO gps_points (route_id, latitude, longitude) VALUES ($1,$2,$3)
	`, routeID, lat, lon); err != nil {
		return 0, err
	}
	return routeID, tx.Commit(ctx)
}

func (r *Repo) AddPoint(ctx context.Context, routeID int64, lat, lon float64) (int64, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return 0, err
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO gps_points (route_id, latitude, longitude) VALUES ($1,$2,$3) RETURNING id
	`, routeID, lat, lon).Scan(&id)
	return id, err
}

// UpdateDetails переименовывает маршрут и двигает последнюю точку;
// если точек нет, добавляет новую.
func (r *Repo) UpdateDetails(ctx context.Context, rw RouteWithPoints, newName string, lat, lon float64) error {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return err
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE routes SET name=$3 WHERE id=$1 AND user_id=$2`, rw.ID, rw.UserID, newName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if last, ok := rw.LastPoint(); ok {
		_, err = tx.Exec(ctx, `
			UPDATE gps_points SET latitude=$2, longitude=$3 WHERE id=$1
		`, last.ID, lat, lon)
	} else {
		_, err = tx.Exec(ctx, `
			INSERT INTO gps_points (route_id, latitude, longitude) VALUES ($1,$2,$3)
		`, rw.ID, lat, lon)
	}
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete точки удаляются каскадом по внешнему ключу.
func (r *Repo) Delete(ctx context.Context, userID, routeID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM routes WHERE id=$1 AND user_id=$2`, routeID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) ListWithPoints(ctx context.Context, userID int64) ([]RouteWithPoints, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, name, created_at
		FROM routes
		WHERE user_id=$1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RouteWithPoints
	index := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		var rt Route
		if err := rows.Scan(&rt.ID, &rt.UserID, &rt.Name, &rt.CreatedAt); err != nil {
			return nil, err
		}
		index[rt.ID] = len(out)
		ids = append(ids, rt.ID)
		out = append(out, RouteWithPoints{Route: rt})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	points, err := r.pointsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range points {
		i := index[p.RouteID]
		out[i].Points = append(out[i].Points, p)
	}
	return out, nil
}

// Get возвращает nil, nil, если маршрута нет или он чужой.
func (r *Repo) Get(ctx context.Context, userID, routeID int64) (*RouteWithPoints, error) {
	var rt Route
	err := r.pool.QueryRow(ctx, `
		SELECT id, user_id, name, created_at FROM routes WHERE id=$1 AND user_id=$2
	`, routeID, userID).Scan(&rt.ID, &rt.UserID, &rt.Name, &rt.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	points, err := r.pointsFor(ctx, []int64{routeID})
	if err != nil {
		return nil, err
	}
	return &RouteWithPoints{Route: rt, Points: points}, nil
}

func (r *Repo) pointsFor(ctx context.Context, routeIDs []int64) ([]GpsPoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, route_id, latitude, longitude, recorded_at
		FROM gps_points
		WHERE route_id = ANY($1)
		ORDER BY recorded_at, id
	`, routeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GpsPoint
	for rows.Next() {
		var p GpsPoint
		if err := rows.Scan(&p.ID, &p.RouteID, &p.Latitude, &p.Longitude, &p.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
