package lookup

import (
	"errors"

	"obsdb/internal/platform/strudel"
)

// Equinox is the only reference epoch the field forms accept.
const Equinox = "J2000"

const (
	searchingText  = "Searching..."
	parseAlertText = "There was a problem parsing search results"
)

var (
	// ErrEmptyName is returned when the submitted name is blank; no
	// request is issued.
	ErrEmptyName = errors.New("lookup name is empty")
	// ErrNotResolved is returned by Service.Resolve when the name did not
	// resolve to J2000 coordinates.
	ErrNotResolved = errors.New("target not found")
)

// Result is one lookUP response. It is consumed once by Respond.
type Result = strudel.Result

// Form is the lookup form as submitted by the browser.
type Form struct {
	Name string `json:"name"`
}

// View is the page surface a lookup writes to: the results panel, the
// RA/Dec inputs of the field search form and the lookup dialog.
type View interface {
	SetResults(text string)
	SetCoordinates(ra, dec float64)
	HideDialog()
	Alert(message string)
}

// Recorder is a View that keeps what was written so it can be sent to the
// browser as JSON.
type Recorder struct {
	Results      string   `json:"results"`
	RA           *float64 `json:"ra,omitempty"`
	Dec          *float64 `json:"dec,omitempty"`
	DialogHidden bool     `json:"dialog_hidden"`
	AlertMessage string   `json:"alert,omitempty"`
}

func (r *Recorder) SetResults(text string) { r.Results = text }

func (r *Recorder) SetCoordinates(ra, dec float64) {
	r.RA = &ra
	r.Dec = &dec
}

func (r *Recorder) HideDialog() { r.DialogHidden = true }

func (r *Recorder) Alert(message string) { r.AlertMessage = message }

// Status is the outcome of one Respond call.
type Status string

const (
	StatusFound    Status = "FOUND"
	StatusNotFound Status = "NOT_FOUND"
	StatusError    Status = "ERROR"
)

// Response is what GET /v1/lookup returns.
type Response struct {
	CorrelationID string   `json:"correlation_id"`
	Name          string   `json:"name"`
	Status        Status   `json:"status"`
	Target        string   `json:"target,omitempty"`
	Service       string   `json:"service,omitempty"`
	Category      string   `json:"category,omitempty"`
	RAText        string   `json:"ra_text,omitempty"`
	DecText       string   `json:"dec_text,omitempty"`
	View          Recorder `json:"view"`
}
