package gateway

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/pawan09032004/planwise/internal/checklist"
)

// State is the persistence indicator shown alongside the checklist.
type State int

const (
	StateIdle State = iota
	StateSaving
	StateSaved
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSaving:
		return "saving"
	case StateSaved:
		return "saved"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Status is a snapshot of the indicator: the state plus, on failure, a
// message explaining what happened to the write.
type Status struct {
	State   State
	Message string
}

// RetryPolicy bounds how a failed save is retried. Only transient failures
// (5xx or no response) are retried; permission and not-found errors fail on
// the first attempt.
type RetryPolicy struct {
	MaxRetries int
	Delays     []time.Duration
}

// DefaultRetryPolicy retries twice with linear backoff.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 2,
	Delays:     []time.Duration{1 * time.Second, 2 * time.Second},
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if attempt < len(p.Delays) {
		return p.Delays[attempt]
	}
	if len(p.Delays) > 0 {
		return p.Delays[len(p.Delays)-1]
	}
	return time.Second
}

// Saver persists a project's full task list remotely. *Client satisfies it.
type Saver interface {
	SaveChecklist(ctx context.Context, projectID int64, tasks []checklist.Task) error
}

// Gateway coordinates checklist persistence for one project: local overrides
// are written synchronously so a toggle is never lost, then the remote save
// runs in the background with bounded retries. The visible task state is
// optimistic and is never rolled back by a failed save.
type Gateway struct {
	projectID int64
	saver     Saver
	store     *OverrideStore
	policy    RetryPolicy

	savedHold  time.Duration
	failedHold time.Duration
	onChange   func(Status)

	// Injection points for tests.
	sleep    func(time.Duration)
	schedule func(time.Duration, func())

	mu     sync.Mutex
	state  State
	msg    string
	epoch  int
	closed bool
	wg     sync.WaitGroup
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithRetryPolicy overrides the default retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(g *Gateway) { g.policy = p }
}

// WithOnChange registers a callback invoked on every indicator transition.
func WithOnChange(fn func(Status)) Option {
	return func(g *Gateway) { g.onChange = fn }
}

// WithHolds overrides how long the saved and failed indicators stay visible.
func WithHolds(saved, failed time.Duration) Option {
	return func(g *Gateway) {
		g.savedHold = saved
		g.failedHold = failed
	}
}

// withSleep replaces the retry backoff sleep, for tests.
func withSleep(fn func(time.Duration)) Option {
	return func(g *Gateway) { g.sleep = fn }
}

// withSchedule replaces the indicator-hold timer, for tests.
func withSchedule(fn func(time.Duration, func())) Option {
	return func(g *Gateway) { g.schedule = fn }
}

// NewGateway creates a gateway bound to one project.
func NewGateway(projectID int64, saver Saver, store *OverrideStore, opts ...Option) *Gateway {
	g := &Gateway{
		projectID:  projectID,
		saver:      saver,
		store:      store,
		policy:     DefaultRetryPolicy,
		savedHold:  3 * time.Second,
		failedHold: 5 * time.Second,
		sleep:      time.Sleep,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Status returns the current indicator snapshot.
func (g *Gateway) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Status{State: g.state, Message: g.msg}
}

// LoadTasks merges a freshly fetched task list with any locally stored
// completion overrides. The fresh list defines membership and order.
func (g *Gateway) LoadTasks(fresh []checklist.Task) []checklist.Task {
	return checklist.Reconcile(fresh, g.store.Load(g.projectID))
}

// Toggle flips one task's completion, stores the result locally, and starts
// a background save. The returned list reflects the new state immediately.
func (g *Gateway) Toggle(ctx context.Context, tasks []checklist.Task, id checklist.ID) []checklist.Task {
	updated := checklist.Toggle(tasks, id)

	if err := g.store.Save(g.projectID, updated); err != nil {
		log.Printf("Warning: failed to store checklist locally: %v", err)
	}

	g.setState(StateSaving, "")

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return updated
	}
	g.epoch++
	epoch := g.epoch
	g.wg.Add(1)
	g.mu.Unlock()

	snapshot := make([]checklist.Task, len(updated))
	copy(snapshot, updated)

	go func() {
		defer g.wg.Done()
		g.persist(ctx, epoch, snapshot)
	}()

	return updated
}

// Wait blocks until all in-flight saves finish. Used by tests and shutdown.
func (g *Gateway) Wait() {
	g.wg.Wait()
}

// Close stops the gateway; transitions from saves still in flight are
// suppressed so nothing fires after the owner is gone.
func (g *Gateway) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}

func (g *Gateway) persist(ctx context.Context, epoch int, tasks []checklist.Task) {
	var err error
	for attempt := 0; ; attempt++ {
		err = g.saver.SaveChecklist(ctx, g.projectID, tasks)
		if err == nil {
			g.finish(epoch, StateSaved, "")
			return
		}
		if !Retryable(err) || attempt >= g.policy.MaxRetries {
			break
		}
		g.sleep(g.policy.delay(attempt))
	}

	g.finish(epoch, StateFailed, failureMessage(err))
}

// finish applies the terminal state for one save attempt, then schedules the
// return to idle. A newer save supersedes the transition.
func (g *Gateway) finish(epoch int, state State, msg string) {
	g.mu.Lock()
	if g.closed || epoch != g.epoch {
		g.mu.Unlock()
		return
	}
	g.state = state
	g.msg = msg
	onChange := g.onChange
	g.mu.Unlock()

	if onChange != nil {
		onChange(Status{State: state, Message: msg})
	}

	hold := g.savedHold
	if state == StateFailed {
		hold = g.failedHold
	}
	g.schedule(hold, func() {
		g.mu.Lock()
		if g.closed || epoch != g.epoch || g.state != state {
			g.mu.Unlock()
			return
		}
		g.state = StateIdle
		g.msg = ""
		onChange := g.onChange
		g.mu.Unlock()
		if onChange != nil {
			onChange(Status{State: StateIdle})
		}
	})
}

func (g *Gateway) setState(state State, msg string) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.state = state
	g.msg = msg
	onChange := g.onChange
	g.mu.Unlock()
	if onChange != nil {
		onChange(Status{State: state, Message: msg})
	}
}

// failureMessage translates a classified save error into the message shown
// next to the failed indicator. Local changes are kept in every case.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "Project no longer exists on the server. Your changes are kept locally."
	case errors.Is(err, ErrPermissionDenied):
		return "You no longer have permission to update this project. Changes saved locally only."
	default:
		return "Could not reach the server. Changes saved locally only."
	}
}
