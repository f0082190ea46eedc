package observation

import (
	"errors"
	"time"

	"obsdb/internal/status"
)

var (
	// ErrNotFound is returned when an observation is not found.
	ErrNotFound = errors.New("observation not found")
	// ErrInvalidObsID is returned for ids that do not look like L12345.
	ErrInvalidObsID = errors.New("invalid observation id")
	// ErrEmptySite is returned when an archive site name is blank.
	ErrEmptySite = errors.New("archive site is required")
)

type Observation struct {
	ObsID      string       `json:"obsid"`
	AntennaSet string       `json:"antennaset"`
	StartTime  time.Time    `json:"start_time"`
	Duration   int          `json:"duration"`
	Clock      int          `json:"clock"`
	Filter     string       `json:"filter"`
	Flags      status.Flags `json:"status"`
	Invalid    bool         `json:"invalid"`
	NumBeams   int          `json:"num_beams"`
}

// Beam is one station beam (SAP) of an observation.
type Beam struct {
	ID        int64        `json:"id"`
	Beam      int          `json:"beam"`
	FieldID   int64        `json:"field_id"`
	FieldName string       `json:"field_name"`
	Subbands  int          `json:"subbands"`
	Flags     status.Flags `json:"status"`
	Invalid   bool         `json:"invalid"`
}

// Detail is an observation with its stations, beams and parset.
type Detail struct {
	Observation
	Parset   string   `json:"parset"`
	Stations []string `json:"stations"`
	Beams    []Beam   `json:"beams"`
}

// ArchiveRequest is the body of POST /v1/observations/{obsid}/archive.
type ArchiveRequest struct {
	Site string `json:"site" validate:"required,max=20"`
}

// SubbandCounts is what a beam's status is computed from.
type SubbandCounts struct {
	Total    int
	Archived int
	OnCEP    int
}

// BeamFlags is the beam rule: a subband counts as archived once it has an
// archive site, and as on CEP once it has a hostname or path.
func BeamFlags(c SubbandCounts) status.Flags {
	return status.Flags{
		Archived: status.Counted(c.Total, c.Archived),
		OnCEP:    status.Counted(c.Total, c.OnCEP),
	}
}

// ObservationFlags rolls the beam flags up to the observation.
func ObservationFlags(beams []status.Flags) status.Flags {
	archived, onCEP := split(beams)
	return status.Flags{Archived: status.All(archived), OnCEP: status.All(onCEP)}
}

// FieldFlags rolls the valid beams of a field up to the field; need is the
// survey's beams_per_field.
func FieldFlags(beams []status.Flags, need int) status.Flags {
	archived, onCEP := split(beams)
	return status.Flags{Archived: status.AtLeast(archived, need), OnCEP: status.AtLeast(onCEP, need)}
}

func split(beams []status.Flags) (archived, onCEP []status.Level) {
	archived = make([]status.Level, len(beams))
	onCEP = make([]status.Level, len(beams))
	for i, b := range beams {
		archived[i] = b.Archived
		onCEP[i] = b.OnCEP
	}
	return archived, onCEP
}
