package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obsdb/internal/status"
)

func ptr(v float64) *float64 { return &v }

func TestFilter_Validate(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		field  string
	}{
		{name: "empty is valid", filter: Filter{}},
		{name: "full position", filter: Filter{RA: ptr(10.68), Dec: ptr(41.27), Radius: ptr(2)}},
		{name: "dist with position", filter: Filter{RA: ptr(0), Dec: ptr(0), Radius: ptr(1), SortBy: "dist"}},
		{name: "ra out of range", filter: Filter{RA: ptr(361), Dec: ptr(0), Radius: ptr(1)}, field: "ra"},
		{name: "dec out of range", filter: Filter{RA: ptr(0), Dec: ptr(-91), Radius: ptr(1)}, field: "dec"},
		{name: "negative radius", filter: Filter{RA: ptr(0), Dec: ptr(0), Radius: ptr(-1)}, field: "radius"},
		{name: "partial position", filter: Filter{RA: ptr(10)}, field: "radius"},
		{name: "dist without position", filter: Filter{SortBy: "dist"}, field: "sort_by"},
		{name: "unknown status", filter: Filter{Status: "lost"}, field: "status"},
		{name: "unknown sort", filter: Filter{SortBy: "size"}, field: "sort_by"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := tt.filter.Validate()
			if tt.field == "" {
				assert.Nil(t, details)
				return
			}
			require.Len(t, details, 1)
			assert.Equal(t, tt.field, details[0].Field)
		})
	}
}

func TestFilter_Query(t *testing.T) {
	t.Run("without position", func(t *testing.T) {
		q := Filter{Survey: "MSSS", Status: "archived", Reverse: true}.Query(50, 100)
		assert.Nil(t, q.Cone)
		assert.Equal(t, "MSSS", q.Survey)
		assert.Equal(t, "archived", q.Status)
		assert.True(t, q.Reverse)
		assert.Equal(t, 50, q.Limit)
		assert.Equal(t, 100, q.Offset)
	})

	t.Run("position is converted to radians", func(t *testing.T) {
		q := Filter{RA: ptr(180), Dec: ptr(-45), Radius: ptr(90)}.Query(10, 0)
		require.NotNil(t, q.Cone)
		assert.InDelta(t, math.Pi, q.Cone.RA, 1e-12)
		assert.InDelta(t, -math.Pi/4, q.Cone.Dec, 1e-12)
		assert.InDelta(t, math.Pi/2+radiusSlack, q.Cone.Radius, 1e-12)
	})
}

func TestField_Decorate(t *testing.T) {
	dist := math.Pi / 180
	f := Field{
		RA:       math.Pi,
		Dec:      -math.Pi / 4,
		NumBeams: 3,
		Distance: &dist,
		Flags:    status.Flags{Archived: status.Partial, OnCEP: status.True},
	}
	f.decorate()

	assert.InDelta(t, 180, f.RADeg, 1e-9)
	assert.InDelta(t, -45, f.DecDeg, 1e-9)
	assert.Equal(t, "12h 0m 0.0s", f.RAText)
	assert.Equal(t, "-45° 0′ 0.0″", f.DecText)
	require.NotNil(t, f.DistanceDeg)
	assert.InDelta(t, 1, *f.DistanceDeg, 1e-9)
	assert.Equal(t, status.SummaryOnCEP, f.Summary)
}
