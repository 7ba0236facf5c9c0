package flow

import (
	"errors"
	"sync"
	"time"

	"quiz_webapp/internal/logger"
	"quiz_webapp/internal/quiz"

	"github.com/google/uuid"
)

// ErrFlowNotFound is returned for unknown flows and for flows owned by
// another user.
var ErrFlowNotFound = errors.New("flow not found")

// SinkFactory returns the effect sink of a newly created flow.
type SinkFactory func(flowID string) Sink

// Registry holds the live creation flows. A user has at most one flow:
// opening a new one discards the previous.
type Registry struct {
	creator Creator
	sinks   SinkFactory
	report  func(Outcome)

	mu     sync.RWMutex
	flows  map[string]*Controller
	byUser map[int64]string
}

func NewRegistry(creator Creator, sinks SinkFactory, report func(Outcome)) *Registry {
	return &Registry{
		creator: creator,
		sinks:   sinks,
		report:  report,
		flows:   make(map[string]*Controller),
		byUser:  make(map[int64]string),
	}
}

// Open starts a new flow for owner with the form prefilled from topicHint.
func (r *Registry) Open(owner int64, topicHint string) *Controller {
	id := uuid.NewString()
	c := NewController(id, owner, quiz.DefaultForm(topicHint), r.creator, r.sinks(id), r.report)

	r.mu.Lock()
	if prev, ok := r.byUser[owner]; ok {
		if old, ok := r.flows[prev]; ok {
			old.Close()
			delete(r.flows, prev)
		}
	}
	r.flows[id] = c
	r.byUser[owner] = id
	FlowsActive.Set(float64(len(r.flows)))
	r.mu.Unlock()

	logger.Debug("flow opened", "flow_id", id, "user_id", owner)
	return c
}

// Get returns the flow id if it belongs to owner.
func (r *Registry) Get(id string, owner int64) (*Controller, error) {
	r.mu.RLock()
	c, ok := r.flows[id]
	r.mu.RUnlock()

	if !ok || c.Owner() != owner {
		return nil, ErrFlowNotFound
	}
	return c, nil
}

// Close discards the flow id of owner.
func (r *Registry) Close(id string, owner int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.flows[id]
	if !ok || c.Owner() != owner {
		return ErrFlowNotFound
	}
	r.removeLocked(c)
	return nil
}

func (r *Registry) removeLocked(c *Controller) {
	c.Close()
	delete(r.flows, c.ID())
	if r.byUser[c.Owner()] == c.ID() {
		delete(r.byUser, c.Owner())
	}
	FlowsActive.Set(float64(len(r.flows)))
}

// Len returns the number of live flows.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.flows)
}

// Sweep discards flows untouched for longer than ttl. Pending flows are kept.
func (r *Registry) Sweep(ttl time.Duration) int {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for _, c := range r.flows {
		idle, pending := c.idleSince(now)
		if pending || idle <= ttl {
			continue
		}
		r.removeLocked(c)
		removed++
	}
	if removed > 0 {
		logger.Info("swept idle flows", "count", removed)
	}
	return removed
}

// StartCleanup sweeps idle flows every interval until stop is closed.
func (r *Registry) StartCleanup(interval, ttl time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				r.Sweep(ttl)
			}
		}
	}()
}
