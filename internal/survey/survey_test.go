package survey

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"obsdb/internal/astro"
)

func TestMapField_Point(t *testing.T) {
	tests := []struct {
		name   string
		field  MapField
		colour string
	}{
		{"not observed", MapField{Beams: 0}, ColourNotObserved},
		{"observed", MapField{Beams: 3, ArchivedBeams: 1}, ColourObserved},
		{"all archived", MapField{Beams: 3, ArchivedBeams: 3}, ColourArchived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.colour, tt.field.Point().Colour)
		})
	}

	p := MapField{RA: math.Pi, Dec: math.Pi / 4}.Point()
	assert.InDelta(t, 180, p.RA, 1e-9)
	assert.InDelta(t, 45, p.Dec, 1e-9)
}

func TestGridSize(t *testing.T) {
	assert.InDelta(t, 2.5, GridSize(astro.Radians(5), astro.Radians(4)), 1e-9)
	assert.InDelta(t, 3, GridSize(astro.Radians(1), astro.Radians(6)), 1e-9)
	assert.Equal(t, 0.0, GridSize(0, 0))
}

func TestNewSummary(t *testing.T) {
	t.Run("empty survey", func(t *testing.T) {
		s := newSummary(Survey{Name: "EMPTY"}, Counts{SpacingRA: 1}, nil)
		assert.Equal(t, 0.0, s.PercentObserved)
		assert.Equal(t, 0.0, s.GridSize)
		assert.NotNil(t, s.Points)
	})

	t.Run("percentage", func(t *testing.T) {
		s := newSummary(Survey{Name: "MSSS"}, Counts{Fields: 8, Observed: 2, Beams: 5}, []MapField{{Beams: 1}, {}})
		assert.Equal(t, 25.0, s.PercentObserved)
		assert.Len(t, s.Points, 2)
		assert.Equal(t, 5, s.Beams)
	})
}
