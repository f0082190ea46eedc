package survey

import (
	"errors"
	"math"
	"time"

	"obsdb/internal/astro"
)

// ErrNotFound is returned when a survey is not found.
var ErrNotFound = errors.New("survey not found")

type Survey struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	BeamsPerField int     `json:"beams_per_field"`
	FieldSize     float64 `json:"field_size"`
}

// Colour codes for the survey map.
const (
	ColourArchived    = "y"
	ColourObserved    = "g"
	ColourNotObserved = "r"
)

// Counts are the per-survey aggregates behind a Summary.
type Counts struct {
	Fields     int
	Observed   int
	Beams      int
	FirstObs   *time.Time
	LastObs    *time.Time
	SpacingRA  float64
	SpacingDec float64
}

// MapField is one non-calibrator field as stored, positions in radians.
type MapField struct {
	RA            float64
	Dec           float64
	Beams         int
	ArchivedBeams int
}

// Point is one cell on the survey map, in degrees.
type Point struct {
	RA     float64 `json:"ra"`
	Dec    float64 `json:"dec"`
	Colour string  `json:"colour"`
}

func (f MapField) Point() Point {
	colour := ColourNotObserved
	switch {
	case f.Beams > 0 && f.ArchivedBeams == f.Beams:
		colour = ColourArchived
	case f.Beams > 0:
		colour = ColourObserved
	}
	return Point{RA: astro.Degrees(f.RA), Dec: astro.Degrees(f.Dec), Colour: colour}
}

type Summary struct {
	Survey          Survey     `json:"survey"`
	Fields          int        `json:"n_fields"`
	Observed        int        `json:"n_observed"`
	PercentObserved float64    `json:"percentage"`
	Beams           int        `json:"n_beams"`
	FirstObs        *time.Time `json:"start_time"`
	LastObs         *time.Time `json:"stop_time"`
	GridSize        float64    `json:"grid_size"`
	Points          []Point    `json:"field_list"`
}

// GridSize assumes the fields lie on a regular grid and returns half the
// larger of the smallest RA and Dec steps, in degrees. Spacings are in
// radians; zero means fewer than two distinct values.
func GridSize(spacingRA, spacingDec float64) float64 {
	return astro.Degrees(math.Max(spacingRA, spacingDec)) / 2
}

func newSummary(s Survey, c Counts, fields []MapField) Summary {
	sum := Summary{
		Survey:   s,
		Fields:   c.Fields,
		Observed: c.Observed,
		Beams:    c.Beams,
		FirstObs: c.FirstObs,
		LastObs:  c.LastObs,
		Points:   make([]Point, 0, len(fields)),
	}
	if c.Fields > 0 {
		sum.PercentObserved = 100 * float64(c.Observed) / float64(c.Fields)
		sum.GridSize = GridSize(c.SpacingRA, c.SpacingDec)
	}
	for _, f := range fields {
		sum.Points = append(sum.Points, f.Point())
	}
	return sum
}
