package lookup

import "fmt"

// Respond applies one lookup result to the view and reports which of the
// three outcomes happened. Exactly one outcome is applied per call.
//
//   - nil result: alert, nothing else is touched.
//   - J2000 with RA and Dec: fill the coordinates, hide the dialog and
//     report the target as found.
//   - anything else: report the target as not found.
func Respond(view View, res *Result) Status {
	if res == nil {
		view.Alert(parseAlertText)
		return StatusError
	}

	if hasPosition(res) {
		view.SetCoordinates(res.RA.Decimal, res.Dec.Decimal)
		view.HideDialog()
		view.SetResults(fmt.Sprintf("Found %s.", res.Target.Name))
		return StatusFound
	}

	view.SetResults(fmt.Sprintf("%s not found.", res.Target.Name))
	return StatusNotFound
}

func hasPosition(res *Result) bool {
	return res != nil && res.RA != nil && res.Dec != nil && res.Equinox == Equinox
}
