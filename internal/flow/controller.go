package flow

import (
	"context"
	"errors"
	"sync"
	"time"

	"quiz_webapp/internal/domain"
	"quiz_webapp/internal/logger"
	"quiz_webapp/internal/quiz"
)

// Messages shown to the user when a submission settles.
const (
	MsgLoading      = "Please wait..."
	MsgCreated      = "Game created successfully"
	MsgCreateFailed = "Error creating game"
)

// ErrSubmissionInFlight is returned by Submit while a request is pending.
// No outbound request is made in that case.
var ErrSubmissionInFlight = errors.New("submission already in flight")

// ErrFlowClosed is returned by Submit once the flow was closed or replaced.
var ErrFlowClosed = errors.New("flow closed")

// Observer receives every state transition of a flow. Observers run with
// the controller locked and must not call back into it.
type Observer func(State)

// Controller owns the submission lifecycle of one creation flow and
// guarantees at most one outbound request at a time.
type Controller struct {
	id      string
	owner   int64
	creator Creator
	sink    Sink
	report  func(Outcome)

	mu        sync.Mutex
	state     State
	form      quiz.Form
	closed    bool
	observers map[int]Observer
	nextObs   int
	lastSeen  time.Time
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewController creates a flow in the Idle state with the given initial form.
// report may be nil.
func NewController(id string, owner int64, form quiz.Form, creator Creator, sink Sink, report func(Outcome)) *Controller {
	return &Controller{
		id:        id,
		owner:     owner,
		creator:   creator,
		sink:      sink,
		report:    report,
		state:     Idle(),
		form:      form,
		observers: make(map[int]Observer),
		lastSeen:  time.Now(),
		done:      make(chan struct{}),
	}
}

func (c *Controller) ID() string   { return c.id }
func (c *Controller) Owner() int64 { return c.owner }

// Snapshot returns the current state and the retained form values.
func (c *Controller) Snapshot() (State, quiz.Form) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.form
}

// Subscribe registers fn and immediately delivers the current state to it.
// The returned func removes the observer.
func (c *Controller) Subscribe(fn Observer) func() {
	c.mu.Lock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = fn
	fn(c.state)
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// Submit validates form and, when the flow is not pending, starts exactly
// one creation request in the background. It returns a *quiz.ValidationError
// for invalid input, ErrSubmissionInFlight while pending and ErrFlowClosed
// once the flow was closed or replaced.
func (c *Controller) Submit(form quiz.Form) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		SubmissionsTotal.WithLabelValues(outcomeClosed).Inc()
		return ErrFlowClosed
	}
	c.lastSeen = time.Now()

	if !c.state.AcceptsSubmit() {
		SubmissionsTotal.WithLabelValues(outcomeInFlight).Inc()
		return ErrSubmissionInFlight
	}

	req, err := quiz.Check(form)
	if err != nil {
		SubmissionsTotal.WithLabelValues(outcomeInvalid).Inc()
		return err
	}
	c.form = form

	// loading must be visible before the request leaves
	handle := c.sink.Loading()
	c.setLocked(Pending())

	SubmissionsInFlight.Inc()
	c.wg.Add(1)
	go c.run(req, handle)

	return nil
}

func (c *Controller) run(req domain.CreationRequest, handle Handle) {
	defer c.wg.Done()
	defer SubmissionsInFlight.Dec()

	res, err := c.creator.Create(context.Background(), req)

	log := logger.With("flow_id", c.id, "user_id", c.owner)

	c.mu.Lock()
	c.sink.Dismiss(handle)
	c.lastSeen = time.Now()

	if c.closed {
		c.state = Idle()
		c.mu.Unlock()
		log.Debug("flow closed before creation settled", "error", err)
		return
	}

	if err != nil {
		c.sink.Error(MsgCreateFailed)
		c.setLocked(Failed(err.Error()))
		c.setLocked(Idle())
		c.mu.Unlock()

		SubmissionsTotal.WithLabelValues(outcomeFailed).Inc()
		log.Warn("quiz creation failed", "error", err, "topic", req.Topic, "type", req.Type)
		c.emitOutcome(Outcome{FlowID: c.id, Owner: c.owner, Request: req, Err: err})
		return
	}

	// route by the type captured at submit time
	dest := quiz.Destination(req.Type, res.GameID)
	c.sink.Success(MsgCreated)
	c.setLocked(Succeeded(res, dest))
	c.mu.Unlock()

	SubmissionsTotal.WithLabelValues(outcomeSucceeded).Inc()
	log.Info("quiz created", "game_id", res.GameID, "type", req.Type, "destination", dest)

	c.sink.Navigate(dest)
	c.emitOutcome(Outcome{FlowID: c.id, Owner: c.owner, Request: req, Result: res})
}

func (c *Controller) emitOutcome(o Outcome) {
	if c.report != nil {
		c.report(o)
	}
}

func (c *Controller) setLocked(s State) {
	c.state = s
	for _, fn := range c.observers {
		fn(s)
	}
}

// Wait blocks until no request of this flow is in flight.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close discards the flow. A request still in flight only has its loading
// notification dismissed once it settles.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.observers = make(map[int]Observer)
	close(c.done)
}

// Done is closed when the flow is closed or replaced.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) idleSince(now time.Time) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return now.Sub(c.lastSeen), c.state.Kind == KindPending
}
