package overview

import "errors"

// ErrNotFound is returned when a target name matches neither a field nor
// an observation.
var ErrNotFound = errors.New("target not found")

// Metric names one of the overview counters.
type Metric string

const (
	MetricSurveys      Metric = "surveys"
	MetricFields       Metric = "fields"
	MetricTargets      Metric = "targets"
	MetricCalibrators  Metric = "calibrators"
	MetricObservations Metric = "observations"
	MetricArchived     Metric = "archived"
)

// Metrics lists every counter shown on the overview.
var Metrics = []Metric{
	MetricSurveys,
	MetricFields,
	MetricTargets,
	MetricCalibrators,
	MetricObservations,
	MetricArchived,
}

type Overview struct {
	Surveys      int `json:"n_surveys"`
	Fields       int `json:"n_fields"`
	Targets      int `json:"n_targets"`
	Calibrators  int `json:"n_calibrators"`
	Observations int `json:"n_observations"`
	Archived     int `json:"n_archived"`
}

func (o *Overview) set(m Metric, n int) {
	switch m {
	case MetricSurveys:
		o.Surveys = n
	case MetricFields:
		o.Fields = n
	case MetricTargets:
		o.Targets = n
	case MetricCalibrators:
		o.Calibrators = n
	case MetricObservations:
		o.Observations = n
	case MetricArchived:
		o.Archived = n
	}
}

// Target kinds.
const (
	KindField       = "field"
	KindObservation = "observation"
)

// Target is where a free-text name points to.
type Target struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}
