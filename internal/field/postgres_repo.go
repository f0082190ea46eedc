package field

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

const fieldColumns = `f.id, f.name, f.description, f.ra, f.dec, f.survey_name, f.calibrator,
		       f.archived, f.on_cep, f.done,
		       (SELECT COUNT(*) FROM beams b WHERE b.field_id = f.id) AS num_beams`

func scanField(row pgx.Row, withDistance bool) (Field, error) {
	var f Field
	dest := []any{
		&f.ID, &f.Name, &f.Description, &f.RA, &f.Dec, &f.Survey, &f.Calibrator,
		&f.Flags.Archived, &f.Flags.OnCEP, &f.Done, &f.NumBeams,
	}
	if withDistance {
		dest = append(dest, &f.Distance)
	}
	if err := row.Scan(dest...); err != nil {
		return Field{}, err
	}
	f.decorate()
	return f, nil
}

func (r *PostgresRepo) List(ctx context.Context, q Query) ([]Field, int, error) {
	clauses := []string{"1=1"}
	args := []any{}
	argn := 1

	distanceSelect := ""
	if q.Cone != nil {
		// Spherical law of cosines, clamped so ACOS never sees 1+epsilon.
		distance := fmt.Sprintf(
			"ACOS(LEAST(1.0, GREATEST(-1.0, SIN(f.dec)*SIN($%d) + COS(f.dec)*COS($%d)*COS(f.ra-$%d))))",
			argn, argn, argn+1)
		args = append(args, q.Cone.Dec, q.Cone.RA)
		argn += 2

		clauses = append(clauses, fmt.Sprintf("f.dec BETWEEN $%d AND $%d", argn, argn+1))
		args = append(args, q.Cone.Dec-q.Cone.Radius, q.Cone.Dec+q.Cone.Radius)
		argn += 2

		clauses = append(clauses, fmt.Sprintf("%s <= $%d", distance, argn))
		args = append(args, q.Cone.Radius)
		argn++

		distanceSelect = ", " + distance + " AS distance"
	}

	if q.Survey != "" {
		clauses = append(clauses, fmt.Sprintf("f.survey_name = $%d", argn))
		args = append(args, q.Survey)
		argn++
	}

	switch q.Status {
	case "calibrator":
		clauses = append(clauses, "f.calibrator")
	case "not_observed":
		clauses = append(clauses, "NOT f.calibrator AND NOT EXISTS (SELECT 1 FROM beams b WHERE b.field_id = f.id)")
	case "archived":
		clauses = append(clauses, "f.archived = 'true'")
	case "on_cep":
		clauses = append(clauses, "f.on_cep = 'true'")
	case "partial":
		clauses = append(clauses, "(f.archived = 'partial' OR f.on_cep = 'partial')")
	}

	where := "WHERE " + strings.Join(clauses, " AND ")

	sortCol := "f.name"
	order := "ASC"
	switch q.SortBy {
	case "ra":
		sortCol = "f.ra"
	case "dec":
		sortCol = "f.dec"
	case "obs":
		sortCol = "num_beams"
		order = "DESC"
	case "dist":
		if q.Cone != nil {
			sortCol = "distance"
		}
	}
	if q.Reverse {
		if order == "ASC" {
			order = "DESC"
		} else {
			order = "ASC"
		}
	}

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM fields f %s", where)
	var total int
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.db.QueryRow(timeoutCtx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count fields: %w", err)
	}

	dataSQL := fmt.Sprintf(`
		SELECT %s%s
		FROM fields f
		%s
		ORDER BY %s %s, f.id ASC
		LIMIT $%d OFFSET $%d`,
		fieldColumns, distanceSelect, where, sortCol, order, argn, argn+1)

	argsWithPage := append([]any{}, args...)
	argsWithPage = append(argsWithPage, q.Limit, q.Offset)
	timeoutCtx2, cancel2 := r.withTimeout(ctx)
	defer cancel2()
	rows, err := r.db.Query(timeoutCtx2, dataSQL, argsWithPage...)
	if err != nil {
		return nil, 0, fmt.Errorf("list fields: %w", err)
	}
	defer rows.Close()

	out := []Field{}
	for rows.Next() {
		f, err := scanField(rows, q.Cone != nil)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, f)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id int64) (Field, error) {
	query := `SELECT ` + fieldColumns + ` FROM fields f WHERE f.id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	f, err := scanField(r.db.QueryRow(timeoutCtx, query, id), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Field{}, ErrNotFound
		}
		return Field{}, err
	}
	return f, nil
}

// GetByName returns the field with exactly this name. Names are only
// unique within a survey; the lowest id wins.
func (r *PostgresRepo) GetByName(ctx context.Context, name string) (Field, error) {
	query := `SELECT ` + fieldColumns + ` FROM fields f WHERE f.name = $1 ORDER BY f.id LIMIT 1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	f, err := scanField(r.db.QueryRow(timeoutCtx, query, name), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Field{}, ErrNotFound
		}
		return Field{}, err
	}
	return f, nil
}

func (r *PostgresRepo) ListBeams(ctx context.Context, fieldID int64, limit, offset int) ([]Beam, int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM beams WHERE field_id = $1`, fieldID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count beams: %w", err)
	}

	const query = `
		SELECT b.id, b.obsid, b.beam, o.start_time, b.archived, b.on_cep, b.invalid
		FROM beams b
		JOIN observations o ON o.obsid = b.obsid
		WHERE b.field_id = $1
		ORDER BY o.start_time, b.beam
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(timeoutCtx, query, fieldID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list beams: %w", err)
	}
	defer rows.Close()

	out := []Beam{}
	for rows.Next() {
		var b Beam
		if err := rows.Scan(&b.ID, &b.ObsID, &b.Beam, &b.StartTime, &b.Flags.Archived, &b.Flags.OnCEP, &b.Invalid); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}
