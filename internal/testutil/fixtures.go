package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InsertSurvey creates a survey.
func InsertSurvey(t *testing.T, db *pgxpool.Pool, name string, beamsPerField int) {
	t.Helper()
	_, err := db.Exec(context.Background(),
		`INSERT INTO surveys (name, beams_per_field, field_size) VALUES ($1, $2, 5)`, name, beamsPerField)
	if err != nil {
		t.Fatalf("insert survey: %v", err)
	}
}

// InsertField creates a field and returns its id. Positions in radians.
func InsertField(t *testing.T, db *pgxpool.Pool, survey, name string, ra, dec float64, calibrator bool) int64 {
	t.Helper()
	var id int64
	err := db.QueryRow(context.Background(),
		`INSERT INTO fields (name, ra, dec, survey_name, calibrator) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		name, ra, dec, survey, calibrator).Scan(&id)
	if err != nil {
		t.Fatalf("insert field: %v", err)
	}
	return id
}

// InsertObservation creates an observation with one beam per field id,
// each beam holding subbands subband rows on CEP.
func InsertObservation(t *testing.T, db *pgxpool.Pool, obsid string, start time.Time, subbands int, fieldIDs ...int64) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Exec(ctx, `
		INSERT INTO observations (obsid, antennaset, start_time, duration, clock, filter)
		VALUES ($1, 'LBA_INNER', $2, 3600, 200, 'LBA_30_90')`, obsid, start)
	if err != nil {
		t.Fatalf("insert observation: %v", err)
	}

	for n := 0; n < subbands; n++ {
		if _, err := db.Exec(ctx, `INSERT INTO subbands (number) VALUES ($1) ON CONFLICT DO NOTHING`, n); err != nil {
			t.Fatalf("insert subband: %v", err)
		}
	}

	for beam, fieldID := range fieldIDs {
		var beamID int64
		err := db.QueryRow(ctx,
			`INSERT INTO beams (obsid, beam, field_id) VALUES ($1, $2, $3) RETURNING id`,
			obsid, beam, fieldID).Scan(&beamID)
		if err != nil {
			t.Fatalf("insert beam: %v", err)
		}
		for n := 0; n < subbands; n++ {
			_, err := db.Exec(ctx, `
				INSERT INTO subband_data (id, beam_id, number, subband_number, hostname, path)
				VALUES ($1, $2, $3, $3, 'locus001', '/data')`,
				fmt.Sprintf("%s-%d-%d", obsid, beam, n), beamID, n)
			if err != nil {
				t.Fatalf("insert subband data: %v", err)
			}
		}
	}
}
