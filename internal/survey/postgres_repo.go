package survey

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

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func (r *PostgresRepo) List(ctx context.Context) ([]Survey, error) {
	const query = `SELECT name, description, beams_per_field, field_size FROM surveys ORDER BY name`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}
	defer rows.Close()

	out := []Survey{}
	for rows.Next() {
		var s Survey
		if err := rows.Scan(&s.Name, &s.Description, &s.BeamsPerField, &s.FieldSize); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, name string) (Survey, error) {
	const query = `SELECT name, description, beams_per_field, field_size FROM surveys WHERE name = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var s Survey
	err := r.db.QueryRow(timeoutCtx, query, name).Scan(&s.Name, &s.Description, &s.BeamsPerField, &s.FieldSize)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Survey{}, ErrNotFound
		}
		return Survey{}, err
	}
	return s, nil
}

func (r *PostgresRepo) Counts(ctx context.Context, name string) (Counts, error) {
	// The spacing columns take the two smallest distinct coordinates.
	const query = `
		SELECT
			(SELECT COUNT(*) FROM fields WHERE survey_name = $1),
			(SELECT COUNT(*) FROM fields f
			  WHERE f.survey_name = $1 AND EXISTS (SELECT 1 FROM beams b WHERE b.field_id = f.id)),
			(SELECT COUNT(*) FROM beams b JOIN fields f ON f.id = b.field_id WHERE f.survey_name = $1),
			(SELECT MIN(o.start_time) FROM observations o
			   JOIN beams b ON b.obsid = o.obsid
			   JOIN fields f ON f.id = b.field_id
			  WHERE f.survey_name = $1),
			(SELECT MAX(o.start_time) FROM observations o
			   JOIN beams b ON b.obsid = o.obsid
			   JOIN fields f ON f.id = b.field_id
			  WHERE f.survey_name = $1),
			COALESCE((SELECT MAX(ra) - MIN(ra) FROM
			  (SELECT DISTINCT ra FROM fields WHERE survey_name = $1 ORDER BY ra LIMIT 2) x), 0),
			COALESCE((SELECT MAX(dec) - MIN(dec) FROM
			  (SELECT DISTINCT dec FROM fields WHERE survey_name = $1 ORDER BY dec LIMIT 2) y), 0)`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var c Counts
	err := r.db.QueryRow(timeoutCtx, query, name).Scan(
		&c.Fields, &c.Observed, &c.Beams, &c.FirstObs, &c.LastObs, &c.SpacingRA, &c.SpacingDec,
	)
	if err != nil {
		return Counts{}, fmt.Errorf("survey counts: %w", err)
	}
	return c, nil
}

func (r *PostgresRepo) MapFields(ctx context.Context, name string) ([]MapField, error) {
	const query = `
		SELECT f.ra, f.dec,
		       COUNT(b.id),
		       COUNT(b.id) FILTER (WHERE b.archived = 'true')
		FROM fields f
		LEFT JOIN beams b ON b.field_id = f.id
		WHERE f.survey_name = $1 AND NOT f.calibrator
		GROUP BY f.id
		ORDER BY f.id`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query, name)
	if err != nil {
		return nil, fmt.Errorf("survey map: %w", err)
	}
	defer rows.Close()

	out := []MapField{}
	for rows.Next() {
		var f MapField
		if err := rows.Scan(&f.RA, &f.Dec, &f.Beams, &f.ArchivedBeams); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
