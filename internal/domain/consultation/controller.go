package consultation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Selection is the read side of the operator's current selection.
type Selection interface {
	Symptoms() []string
	Allergies() []string
}

// Attempt is one submission moving through the engine. It carries its own
// snapshot of the selection, so later toggles do not affect it.
type Attempt struct {
	ID      string
	Request Request

	ctx    context.Context
	cancel context.CancelFunc
	client Client
}

// Run performs the engine call. It is the only step of a submission that
// blocks and it never panics.
func (a *Attempt) Run() (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &ServiceError{Kind: KindTransport, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return a.client.Submit(a.ctx, a.Request)
}

// Controller drives the Idle → Loading → Success/Failure workflow for a single
// operator session.
type Controller struct {
	mu        sync.Mutex
	selection Selection
	client    Client
	logger    zerolog.Logger
	outcome   Outcome
	current   *Attempt
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

func WithControllerLogger(logger zerolog.Logger) ControllerOption {
	return func(c *Controller) { c.logger = logger }
}

func NewController(sel Selection, client Client, opts ...ControllerOption) *Controller {
	c := &Controller{
		selection: sel,
		client:    client,
		logger:    zerolog.Nop(),
		outcome:   idle(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Begin validates the selection and starts a new attempt. While another
// attempt is loading it returns ErrSubmissionInFlight and leaves the state
// untouched. An empty symptom selection moves the controller to Failure and
// returns ErrNoSymptoms without contacting the engine.
func (c *Controller) Begin(ctx context.Context) (*Attempt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.outcome.State == StateLoading {
		c.logger.Debug().Str("attempt_id", c.current.ID).Msg("submission rejected, attempt in flight")
		return nil, ErrSubmissionInFlight
	}

	symptoms := c.selection.Symptoms()
	if len(symptoms) == 0 {
		c.outcome = failure(MsgNoSymptoms)
		c.logger.Debug().Str("state", c.outcome.State.String()).Msg("submission rejected, no symptoms")
		return nil, ErrNoSymptoms
	}

	actx, cancel := context.WithCancel(ctx)
	a := &Attempt{
		ID:      uuid.New().String(),
		Request: NewRequest(symptoms, c.selection.Allergies()),
		ctx:     actx,
		cancel:  cancel,
		client:  c.client,
	}
	c.current = a
	c.outcome = loading()

	c.logger.Debug().
		Str("attempt_id", a.ID).
		Str("state", c.outcome.State.String()).
		Int("symptoms", len(a.Request.Symptoms)).
		Int("allergies", len(a.Request.Allergies)).
		Msg("consultation started")
	return a, nil
}

// Settle records the result of an attempt. Attempts that were cancelled or
// superseded are dropped and the current outcome is returned unchanged.
func (c *Controller) Settle(a *Attempt, res *Result, err error) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	a.cancel()
	if c.current != a {
		c.logger.Debug().Str("attempt_id", a.ID).Msg("dropping result of stale attempt")
		return c.outcome
	}
	c.current = nil

	switch {
	case err != nil:
		c.outcome = failure(failureMessage(err))
		evt := c.logger.Warn().Err(err).Str("attempt_id", a.ID)
		var se *ServiceError
		if errors.As(err, &se) {
			evt = evt.Str("error_kind", string(se.Kind))
		}
		evt.Msg("consultation failed")
	case res == nil:
		c.outcome = failure(MsgServiceUnreachable)
		c.logger.Warn().Str("attempt_id", a.ID).Msg("consultation returned no result")
	default:
		c.outcome = success(res)
		c.logger.Debug().
			Str("attempt_id", a.ID).
			Str("state", c.outcome.State.String()).
			Int("diagnoses", len(res.Diagnoses)).
			Int("warnings", len(res.Warnings)).
			Msg("consultation settled")
	}
	return c.outcome
}

// Submit runs a complete submission on the calling goroutine.
func (c *Controller) Submit(ctx context.Context) Outcome {
	a, err := c.Begin(ctx)
	if err != nil {
		return c.Outcome()
	}
	res, err := a.Run()
	return c.Settle(a, res, err)
}

// Cancel abandons the in-flight attempt, if any, and returns to Idle. It
// reports whether an attempt was cancelled.
func (c *Controller) Cancel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return false
	}
	c.current.cancel()
	c.logger.Debug().Str("attempt_id", c.current.ID).Msg("consultation cancelled")
	c.current = nil
	c.outcome = idle()
	return true
}

func (c *Controller) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// Loading reports whether a consultation is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome.State == StateLoading
}

// CanSubmit reports whether a submission would be accepted right now: nothing
// is loading and at least one symptom is selected.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome.State != StateLoading && len(c.selection.Symptoms()) > 0
}

// Message returns the failure text, or "" outside of Failure.
func (c *Controller) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome.Reason
}
