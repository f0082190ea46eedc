package lookup

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resolver fetches one lookup result. A nil result with a nil error means
// the service answered with an empty payload.
type Resolver interface {
	Resolve(ctx context.Context, name, callback string) (*Result, error)
}

// Call is one in-flight lookup. It resolves exactly once.
type Call struct {
	ID   string
	Name string

	done   chan struct{}
	result *Result
	err    error
}

// Done is closed once the call has resolved.
func (c *Call) Done() <-chan struct{} { return c.done }

// Wait blocks until the call resolves or ctx is done.
func (c *Call) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-c.done:
		return c.result, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Callback is the JSONP callback name sent with this call. It embeds the
// correlation id so responses can never be attributed to another call.
func (c *Call) Callback() string {
	return "getLookUPResults_" + strings.ReplaceAll(c.ID, "-", "")
}

func (c *Call) resolve(res *Result, err error) {
	c.result, c.err = res, err
	close(c.done)
}

// Requester issues lookups. Each call runs independently; concurrent calls
// share nothing but the resolver.
type Requester struct {
	resolver Resolver
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func NewRequester(resolver Resolver, logger *zap.Logger) *Requester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Requester{resolver: resolver, logger: logger}
}

// Request starts a lookup for the form's name. A blank name returns nil
// and leaves the view untouched. Otherwise the results panel is set to
// "Searching..." and exactly one resolver request is started.
func (r *Requester) Request(ctx context.Context, form Form, view View) *Call {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return nil
	}
	if view != nil {
		view.SetResults(searchingText)
	}

	call := &Call{
		ID:   uuid.NewString(),
		Name: name,
		done: make(chan struct{}),
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		res, err := r.resolver.Resolve(ctx, name, call.Callback())
		if err != nil {
			r.logger.Warn("lookup failed",
				zap.String("correlation_id", call.ID),
				zap.String("name", name),
				zap.Error(err),
			)
		}
		call.resolve(res, err)
	}()

	return call
}

// Wait blocks until every started call has resolved.
func (r *Requester) Wait() {
	r.wg.Wait()
}
