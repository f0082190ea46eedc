package observation

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

const observationColumns = `o.obsid, o.antennaset, o.start_time, o.duration, o.clock, o.filter,
		       o.archived, o.on_cep, o.invalid,
		       (SELECT COUNT(*) FROM beams b WHERE b.obsid = o.obsid) AS num_beams`

func scanObservation(row pgx.Row, extra ...any) (Observation, error) {
	var o Observation
	dest := []any{
		&o.ObsID, &o.AntennaSet, &o.StartTime, &o.Duration, &o.Clock, &o.Filter,
		&o.Flags.Archived, &o.Flags.OnCEP, &o.Invalid, &o.NumBeams,
	}
	err := row.Scan(append(dest, extra...)...)
	return o, err
}

func (r *PostgresRepo) List(ctx context.Context, limit, offset int) ([]Observation, int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM observations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count observations: %w", err)
	}

	query := `SELECT ` + observationColumns + `
		FROM observations o
		ORDER BY o.start_time, o.obsid
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(timeoutCtx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list observations: %w", err)
	}
	defer rows.Close()

	out := []Observation{}
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, obsid string) (Detail, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var d Detail
	query := `SELECT ` + observationColumns + `, o.parset FROM observations o WHERE o.obsid = $1`
	o, err := scanObservation(r.db.QueryRow(timeoutCtx, query, obsid), &d.Parset)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}
	d.Observation = o

	rows, err := r.db.Query(timeoutCtx, `
		SELECT s.name
		FROM observation_stations os
		JOIN stations s ON s.idnumber = os.station_id
		WHERE os.obsid = $1
		ORDER BY s.name`, obsid)
	if err != nil {
		return Detail{}, fmt.Errorf("list stations: %w", err)
	}
	d.Stations, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return Detail{}, fmt.Errorf("list stations: %w", err)
	}

	rows, err = r.db.Query(timeoutCtx, `
		SELECT b.id, b.beam, b.field_id, f.name,
		       (SELECT COUNT(*) FROM subband_data sd WHERE sd.beam_id = b.id),
		       b.archived, b.on_cep, b.invalid
		FROM beams b
		JOIN fields f ON f.id = b.field_id
		WHERE b.obsid = $1
		ORDER BY b.beam`, obsid)
	if err != nil {
		return Detail{}, fmt.Errorf("list beams: %w", err)
	}
	d.Beams, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (Beam, error) {
		var b Beam
		err := row.Scan(&b.ID, &b.Beam, &b.FieldID, &b.FieldName, &b.Subbands, &b.Flags.Archived, &b.Flags.OnCEP, &b.Invalid)
		return b, err
	})
	if err != nil {
		return Detail{}, fmt.Errorf("list beams: %w", err)
	}
	return d, nil
}

// MarkInvalid flags the observation and its beams as invalid and refreshes
// the status of the fields they cover.
func (r *PostgresRepo) MarkInvalid(ctx context.Context, obsid string) (Observation, error) {
	return r.update(ctx, obsid, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE observations SET invalid = TRUE WHERE obsid = $1`, obsid); err != nil {
			return fmt.Errorf("mark observation invalid: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE beams SET invalid = TRUE WHERE obsid = $1`, obsid); err != nil {
			return fmt.Errorf("mark beams invalid: %w", err)
		}
		return nil
	})
}

// Archive records every subband of the observation as held at site,
// creating the site if needed.
func (r *PostgresRepo) Archive(ctx context.Context, obsid, site string) (Observation, error) {
	return r.update(ctx, obsid, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO archive_sites (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, site); err != nil {
			return fmt.Errorf("create archive site: %w", err)
		}
		const archiveSQL = `
			UPDATE subband_data sd
			SET archive_site = $2
			FROM beams b
			WHERE sd.beam_id = b.id AND b.obsid = $1`
		if _, err := tx.Exec(ctx, archiveSQL, obsid, site); err != nil {
			return fmt.Errorf("archive subbands: %w", err)
		}
		return nil
	})
}

// update locks the observation, applies fn and recomputes status, all in
// one transaction.
func (r *PostgresRepo) update(ctx context.Context, obsid string, fn func(ctx context.Context, tx pgx.Tx) error) (Observation, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.Begin(timeoutCtx)
	if err != nil {
		return Observation{}, err
	}
	defer tx.Rollback(timeoutCtx)

	var found string
	err = tx.QueryRow(timeoutCtx, `SELECT obsid FROM observations WHERE obsid = $1 FOR UPDATE`, obsid).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Observation{}, ErrNotFound
		}
		return Observation{}, err
	}

	if err := fn(timeoutCtx, tx); err != nil {
		return Observation{}, err
	}
	if _, err := recompute(timeoutCtx, tx, obsid); err != nil {
		return Observation{}, err
	}

	o, err := scanObservation(tx.QueryRow(timeoutCtx, `SELECT `+observationColumns+` FROM observations o WHERE o.obsid = $1`, obsid))
	if err != nil {
		return Observation{}, err
	}
	if err := tx.Commit(timeoutCtx); err != nil {
		return Observation{}, err
	}
	return o, nil
}
