package observation

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"obsdb/internal/status"
)

type beamCounts struct {
	id      int64
	fieldID int64
	counts  SubbandCounts
}

// recompute refreshes the stored status of every beam of obsid, of the
// observation itself and of every field those beams point at. It must run
// inside the transaction that changed the subbands.
func recompute(ctx context.Context, tx pgx.Tx, obsid string) (status.Flags, error) {
	const beamsSQL = `
		SELECT b.id, b.field_id,
		       COUNT(sd.id),
		       COUNT(sd.archive_site),
		       COUNT(sd.id) FILTER (WHERE sd.hostname <> '' OR sd.path <> '')
		FROM beams b
		LEFT JOIN subband_data sd ON sd.beam_id = b.id
		WHERE b.obsid = $1
		GROUP BY b.id, b.field_id
		ORDER BY b.id`

	rows, err := tx.Query(ctx, beamsSQL, obsid)
	if err != nil {
		return status.Flags{}, fmt.Errorf("load beams: %w", err)
	}
	beams, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (beamCounts, error) {
		var b beamCounts
		err := row.Scan(&b.id, &b.fieldID, &b.counts.Total, &b.counts.Archived, &b.counts.OnCEP)
		return b, err
	})
	if err != nil {
		return status.Flags{}, fmt.Errorf("load beams: %w", err)
	}

	flags := make([]status.Flags, 0, len(beams))
	fieldIDs := []int64{}
	seen := map[int64]bool{}
	for _, b := range beams {
		f := BeamFlags(b.counts)
		flags = append(flags, f)
		if _, err := tx.Exec(ctx, `UPDATE beams SET archived = $2, on_cep = $3 WHERE id = $1`, b.id, f.Archived, f.OnCEP); err != nil {
			return status.Flags{}, fmt.Errorf("update beam %d: %w", b.id, err)
		}
		if !seen[b.fieldID] {
			seen[b.fieldID] = true
			fieldIDs = append(fieldIDs, b.fieldID)
		}
	}

	obsFlags := ObservationFlags(flags)
	if _, err := tx.Exec(ctx, `UPDATE observations SET archived = $2, on_cep = $3 WHERE obsid = $1`,
		obsid, obsFlags.Archived, obsFlags.OnCEP); err != nil {
		return status.Flags{}, fmt.Errorf("update observation: %w", err)
	}

	for _, id := range fieldIDs {
		if err := recomputeField(ctx, tx, id); err != nil {
			return status.Flags{}, err
		}
	}
	return obsFlags, nil
}

// recomputeField applies the field rule over the field's valid beams.
func recomputeField(ctx context.Context, tx pgx.Tx, fieldID int64) error {
	var need int
	err := tx.QueryRow(ctx, `
		SELECT s.beams_per_field
		FROM fields f
		JOIN surveys s ON s.name = f.survey_name
		WHERE f.id = $1`, fieldID).Scan(&need)
	if err != nil {
		return fmt.Errorf("load field %d: %w", fieldID, err)
	}

	rows, err := tx.Query(ctx, `
		SELECT b.archived, b.on_cep
		FROM beams b
		JOIN observations o ON o.obsid = b.obsid
		WHERE b.field_id = $1 AND NOT b.invalid AND NOT o.invalid`, fieldID)
	if err != nil {
		return fmt.Errorf("load field %d beams: %w", fieldID, err)
	}
	beams, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (status.Flags, error) {
		var f status.Flags
		err := row.Scan(&f.Archived, &f.OnCEP)
		return f, err
	})
	if err != nil {
		return fmt.Errorf("load field %d beams: %w", fieldID, err)
	}

	f := FieldFlags(beams, need)
	_, err = tx.Exec(ctx, `UPDATE fields SET archived = $2, on_cep = $3, done = $4 WHERE id = $1`,
		fieldID, f.Archived, f.OnCEP, f.Done())
	if err != nil {
		return fmt.Errorf("update field %d: %w", fieldID, err)
	}
	return nil
}
