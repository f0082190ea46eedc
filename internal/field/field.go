package field

import (
	"errors"
	"time"

	"obsdb/internal/astro"
	"obsdb/internal/httpx"
	"obsdb/internal/status"
	"obsdb/internal/validation"
)

// ErrNotFound is returned when a field is not found.
var ErrNotFound = errors.New("field not found")

// radiusSlack widens cone searches so fields sitting exactly on the edge
// survive rounding.
const radiusSlack = 1e-5

// Field is one pointing of a survey grid. RA and Dec are stored in
// radians; the *_deg and *_text fields are derived for display.
type Field struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	RA          float64        `json:"ra"`
	Dec         float64        `json:"dec"`
	Survey      string         `json:"survey"`
	Calibrator  bool           `json:"calibrator"`
	Flags       status.Flags   `json:"status"`
	Done        bool           `json:"done"`
	NumBeams    int            `json:"num_beams"`
	Distance    *float64       `json:"distance,omitempty"`
	RADeg       float64        `json:"ra_deg"`
	DecDeg      float64        `json:"dec_deg"`
	RAText      string         `json:"ra_text"`
	DecText     string         `json:"dec_text"`
	DistanceDeg *float64       `json:"distance_deg,omitempty"`
	Summary     status.Summary `json:"summary"`
}

func (f *Field) decorate() {
	f.RADeg = astro.Degrees(f.RA)
	f.DecDeg = astro.Degrees(f.Dec)
	f.RAText = astro.FormatHMS(f.RA)
	f.DecText = astro.FormatDMS(f.Dec)
	if f.Distance != nil {
		d := astro.Degrees(*f.Distance)
		f.DistanceDeg = &d
	}
	f.Summary = status.Summarise(f.Calibrator, f.NumBeams > 0, f.Flags)
}

// Beam is one observation beam pointed at a field.
type Beam struct {
	ID        int64        `json:"id"`
	ObsID     string       `json:"obsid"`
	Beam      int          `json:"beam"`
	StartTime time.Time    `json:"start_time"`
	Flags     status.Flags `json:"status"`
	Invalid   bool         `json:"invalid"`
}

// Cone is a positional filter in radians.
type Cone struct {
	RA     float64
	Dec    float64
	Radius float64
}

// Query defines filters and pagination for listing fields.
type Query struct {
	Cone    *Cone
	Survey  string
	Status  string
	SortBy  string
	Reverse bool
	Limit   int
	Offset  int
}

// Filter is the field search form. Positions are in degrees.
type Filter struct {
	RA      *float64 `json:"ra" validate:"omitempty,gte=0,lte=360"`
	Dec     *float64 `json:"dec" validate:"omitempty,gte=-90,lte=90"`
	Radius  *float64 `json:"radius" validate:"omitempty,gte=0,lte=360"`
	Survey  string   `json:"survey" validate:"omitempty,max=100"`
	Status  string   `json:"status" validate:"omitempty,oneof=calibrator not_observed archived on_cep partial"`
	SortBy  string   `json:"sort_by" validate:"omitempty,oneof=name ra dec dist obs"`
	Reverse bool     `json:"reverse"`
}

// HasPosition reports whether all of ra, dec and radius are set.
func (f Filter) HasPosition() bool {
	return f.RA != nil && f.Dec != nil && f.Radius != nil
}

// Validate checks field bounds, then the cross-field rules: position is
// all-or-nothing and distance sorting needs a position.
func (f Filter) Validate() []httpx.ErrorDetail {
	if details := validation.Struct(f); details != nil {
		return details
	}

	set := 0
	for _, v := range []*float64{f.RA, f.Dec, f.Radius} {
		if v != nil {
			set++
		}
	}
	if set > 0 && set < 3 {
		return []httpx.ErrorDetail{{
			Field:   "radius",
			Message: "Please specify all of right ascension, declination and search radius",
		}}
	}
	if f.SortBy == "dist" && !f.HasPosition() {
		return []httpx.ErrorDetail{{
			Field:   "sort_by",
			Message: "Please specify a target to sort by distance",
		}}
	}
	return nil
}

// Query converts a validated filter into a repository query.
func (f Filter) Query(limit, offset int) Query {
	q := Query{
		Survey:  f.Survey,
		Status:  f.Status,
		SortBy:  f.SortBy,
		Reverse: f.Reverse,
		Limit:   limit,
		Offset:  offset,
	}
	if f.HasPosition() {
		q.Cone = &Cone{
			RA:     astro.Radians(*f.RA),
			Dec:    astro.Radians(*f.Dec),
			Radius: astro.Radians(*f.Radius) + radiusSlack,
		}
	}
	return q
}
