// Package status rolls data availability up from subbands to beams,
// observations and fields. Each level is "true", "partial" or "false"
// for two independent flags: archived and on CEP.
package status

import "fmt"

type Level string

const (
	True    Level = "true"
	Partial Level = "partial"
	False   Level = "false"
)

func Parse(v string) (Level, error) {
	switch Level(v) {
	case True, Partial, False:
		return Level(v), nil
	}
	return False, fmt.Errorf("unknown status level %q", v)
}

// Counted is the beam rule: every subband present is True, some is
// Partial. A beam without subbands is False.
func Counted(total, present int) Level {
	switch {
	case total > 0 && present >= total:
		return True
	case present > 0:
		return Partial
	}
	return False
}

// All is the observation rule: True when every beam is True, Partial when
// any beam has data. An observation without beams is False.
func All(levels []Level) Level {
	if len(levels) == 0 {
		return False
	}
	nTrue, nAny := tally(levels)
	switch {
	case nTrue == len(levels):
		return True
	case nAny > 0:
		return Partial
	}
	return False
}

// AtLeast is the field rule: True once need beams are True, Partial when
// any beam has data.
func AtLeast(levels []Level, need int) Level {
	nTrue, nAny := tally(levels)
	switch {
	case need > 0 && nTrue >= need:
		return True
	case nAny > 0:
		return Partial
	}
	return False
}

func tally(levels []Level) (nTrue, nAny int) {
	for _, l := range levels {
		if l == True {
			nTrue++
		}
		if l == True || l == Partial {
			nAny++
		}
	}
	return nTrue, nAny
}

// Flags is the pair of availability levels every entity carries.
type Flags struct {
	Archived Level `json:"archived"`
	OnCEP    Level `json:"on_cep"`
}

// Done reports whether the data is complete in either place.
func (f Flags) Done() bool {
	return f.Archived == True || f.OnCEP == True
}

// Summary is the single label a listing shows for a field.
type Summary string

const (
	SummaryCalibrator      Summary = "calibrator"
	SummaryNotObserved     Summary = "not_observed"
	SummaryArchived        Summary = "archived"
	SummaryPartialArchived Summary = "partial_archived"
	SummaryOnCEP           Summary = "on_cep"
	SummaryPartialCEP      Summary = "partial_cep"
	SummaryUnknown         Summary = "unknown"
)

// Summarise picks the label for a field: calibrators first, then the
// best of archived and on CEP.
func Summarise(calibrator bool, observed bool, f Flags) Summary {
	switch {
	case calibrator:
		return SummaryCalibrator
	case !observed:
		return SummaryNotObserved
	case f.Archived == True:
		return SummaryArchived
	case f.OnCEP == True:
		return SummaryOnCEP
	case f.Archived == Partial:
		return SummaryPartialArchived
	case f.OnCEP == Partial:
		return SummaryPartialCEP
	}
	return SummaryUnknown
}
