package overview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

var countSQL = map[Metric]string{
	MetricSurveys:      `SELECT COUNT(*) FROM surveys`,
	MetricFields:       `SELECT COUNT(*) FROM fields`,
	MetricTargets:      `SELECT COUNT(*) FROM fields WHERE NOT calibrator`,
	MetricCalibrators:  `SELECT COUNT(*) FROM fields WHERE calibrator`,
	MetricObservations: `SELECT COUNT(*) FROM observations`,
	MetricArchived:     `SELECT COUNT(*) FROM observations WHERE archived = 'true'`,
}

func (r *PostgresRepo) Count(ctx context.Context, m Metric) (int, error) {
	query, ok := countSQL[m]
	if !ok {
		return 0, fmt.Errorf("unknown metric %q", m)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	var n int
	if err := r.db.QueryRow(timeoutCtx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", m, err)
	}
	return n, nil
}

func (r *PostgresRepo) FieldIDByName(ctx context.Context, name string) (int64, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var id int64
	err := r.db.QueryRow(timeoutCtx, `SELECT id FROM fields WHERE name = $1 ORDER BY id LIMIT 1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return id, nil
}

func (r *PostgresRepo) ObservationExists(ctx context.Context, obsid string) (bool, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(timeoutCtx, `SELECT EXISTS (SELECT 1 FROM observations WHERE obsid = $1)`, obsid).Scan(&exists)
	return exists, err
}
