package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"obsdb/internal/astro"
	"obsdb/internal/platform/strudel"
)

// Position is a resolved J2000 position in degrees.
type Position struct {
	Target string  `json:"target"`
	RA     float64 `json:"ra"`
	Dec    float64 `json:"dec"`
}

type Service struct {
	requester *Requester
	timeout   time.Duration
}

func NewService(requester *Requester, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Service{requester: requester, timeout: timeout}
}

// Lookup runs one request/respond cycle against a fresh Recorder.
// Transport failures are returned as errors; an unreadable payload is
// reported through the view as an alert, like an empty one.
func (s *Service) Lookup(ctx context.Context, form Form) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var view Recorder
	call := s.requester.Request(ctx, form, &view)
	if call == nil {
		return Response{}, ErrEmptyName
	}

	res, err := call.Wait(ctx)
	if err != nil && !errors.Is(err, strudel.ErrMalformedPayload) {
		return Response{}, fmt.Errorf("lookup %q (%s): %w", call.Name, call.ID, err)
	}
	if err != nil {
		res = nil
	}

	status := Respond(&view, res)

	out := Response{
		CorrelationID: call.ID,
		Name:          call.Name,
		Status:        status,
		View:          view,
	}
	if res != nil {
		out.Target = res.Target.Name
		if res.Service != nil {
			out.Service = res.Service.Name
		}
		if res.Category != nil {
			out.Category = res.Category.AVMDesc
		}
	}
	if status == StatusFound {
		out.RAText = astro.FormatHMS(astro.Radians(*view.RA))
		out.DecText = astro.FormatDMS(astro.Radians(*view.Dec))
	}
	return out, nil
}

// Resolve returns the J2000 position for name, or ErrNotResolved.
func (s *Service) Resolve(ctx context.Context, name string) (Position, error) {
	resp, err := s.Lookup(ctx, Form{Name: name})
	if err != nil {
		return Position{}, err
	}
	if resp.Status != StatusFound {
		return Position{}, fmt.Errorf("%w: %s", ErrNotResolved, resp.Name)
	}
	return Position{Target: resp.Target, RA: *resp.View.RA, Dec: *resp.View.Dec}, nil
}
