package observation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obsdb/internal/status"
	"obsdb/internal/testutil"
)

func TestPostgresRepo_ArchiveAndInvalidate(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()

	testutil.InsertSurvey(t, db, "MSSS", 2)
	fieldID := testutil.InsertField(t, db, "MSSS", "L229+46", 4.0, 0.8, false)
	start := time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC)
	testutil.InsertObservation(t, db, "L100", start, 4, fieldID, fieldID)

	repo := NewPostgresRepo(db, 5*time.Second)

	o, err := repo.Archive(ctx, "L100", "LTA")
	require.NoError(t, err)
	assert.Equal(t, status.True, o.Flags.Archived)
	assert.Equal(t, status.True, o.Flags.OnCEP)
	assert.Equal(t, 2, o.NumBeams)

	var archived, onCEP string
	var done bool
	require.NoError(t, db.QueryRow(ctx, `SELECT archived, on_cep, done FROM fields WHERE id = $1`, fieldID).Scan(&archived, &onCEP, &done))
	assert.Equal(t, "true", archived)
	assert.Equal(t, "true", onCEP)
	assert.True(t, done)

	detail, err := repo.Get(ctx, "L100")
	require.NoError(t, err)
	require.Len(t, detail.Beams, 2)
	assert.Equal(t, 4, detail.Beams[0].Subbands)
	assert.Equal(t, "L229+46", detail.Beams[0].FieldName)

	o, err = repo.MarkInvalid(ctx, "L100")
	require.NoError(t, err)
	assert.True(t, o.Invalid)

	require.NoError(t, db.QueryRow(ctx, `SELECT archived, done FROM fields WHERE id = $1`, fieldID).Scan(&archived, &done))
	assert.Equal(t, "false", archived)
	assert.False(t, done)

	_, err = repo.Archive(ctx, "L999", "LTA")
	assert.ErrorIs(t, err, ErrNotFound)
}
