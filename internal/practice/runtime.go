package practice

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Runtime errors.
var (
	// ErrInputRequired is returned by Advance when the current step needs
	// input that has not been recorded yet.
	ErrInputRequired = errors.New("practice: current step requires input")

	// ErrAtFirstStep is returned by Back on the first step.
	ErrAtFirstStep = errors.New("practice: already at first step")

	// ErrClosed is returned after Close or completion.
	ErrClosed = errors.New("practice: runtime is closed")
)

// Runtime walks a plan's steps. Navigation is forward with explicit Back;
// a step with RequiresInput blocks Advance until input is recorded.
// Countdown steps start ticking on entry and force-advance when they
// expire. The OnComplete callback fires exactly once, when the runtime
// advances past the final step. Closing the runtime cancels any running
// countdown and persists nothing.
type Runtime struct {
	plan          Plan
	onComplete    func()
	onTick        func(stepID string, remaining time.Duration)
	countdownOpts []CountdownOption

	mu        sync.Mutex
	idx       int
	gen       int // bumped on every step entry; stale countdown expiries check it
	inputs    map[string]string
	countdown *Countdown
	closed    bool
	complete  sync.Once
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// OnComplete sets the completion callback.
func OnComplete(fn func()) RuntimeOption {
	return func(r *Runtime) { r.onComplete = fn }
}

// OnTick sets a callback invoked for every countdown tick with the step ID
// and the time remaining.
func OnTick(fn func(stepID string, remaining time.Duration)) RuntimeOption {
	return func(r *Runtime) { r.onTick = fn }
}

// WithCountdownOptions passes options through to countdowns the runtime
// starts, for tests that need a faster tick.
func WithCountdownOptions(opts ...CountdownOption) RuntimeOption {
	return func(r *Runtime) { r.countdownOpts = opts }
}

// NewRuntime creates a runtime positioned at the plan's first step. The
// plan must have at least one step.
func NewRuntime(plan Plan, opts ...RuntimeOption) (*Runtime, error) {
	if len(plan.Steps) == 0 {
		return nil, fmt.Errorf("practice: plan for %q has no steps", plan.PracticeID)
	}
	r := &Runtime{
		plan:   plan,
		inputs: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.mu.Lock()
	r.enterStepLocked()
	r.mu.Unlock()
	return r, nil
}

// enterStepLocked starts side effects of the step at idx. Caller holds mu.
func (r *Runtime) enterStepLocked() {
	r.gen++
	step := r.plan.Steps[r.idx]
	if step.Kind != StepCountdown || step.Duration <= 0 {
		return
	}
	stepID := step.ID
	gen := r.gen
	var onTick func(time.Duration)
	if r.onTick != nil {
		tick := r.onTick
		onTick = func(remaining time.Duration) { tick(stepID, remaining) }
	}
	r.countdown = NewCountdown(step.Duration, onTick, func() {
		r.expire(gen)
	}, r.countdownOpts...)
}

// expire force-advances when a countdown's clock runs out. An expiry queued
// while a concurrent Advance or Back already left the step carries a stale
// generation and is dropped.
func (r *Runtime) expire(gen int) {
	r.mu.Lock()
	if r.closed || r.gen != gen {
		r.mu.Unlock()
		return
	}
	_ = r.advanceLocked()
}

// stopCountdownLocked cancels the running countdown, if any. Caller holds mu.
func (r *Runtime) stopCountdownLocked() {
	if r.countdown != nil {
		r.countdown.Stop()
		r.countdown = nil
	}
}

// Current returns the step the runtime is positioned at.
func (r *Runtime) Current() Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.plan.Steps[r.idx]
}

// StepIndex returns the current position and the total step count.
func (r *Runtime) StepIndex() (current, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.idx, len(r.plan.Steps)
}

// Countdown returns the active countdown, or nil when the current step has
// none.
func (r *Runtime) Countdown() *Countdown {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countdown
}

// SetInput records the participant's input for a step.
func (r *Runtime) SetInput(stepID, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inputs[stepID] = value
}

// Input returns the recorded input for a step.
func (r *Runtime) Input(stepID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.inputs[stepID]
	return v, ok
}

// Advance moves to the next step. It fails with ErrInputRequired when the
// current step demands input that is missing. Advancing past the final
// step completes the runtime, fires OnComplete once, and closes it.
func (r *Runtime) Advance() error {
	r.mu.Lock()
	return r.advanceLocked()
}

// advanceLocked implements Advance with r.mu held. It releases the lock.
func (r *Runtime) advanceLocked() error {
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	step := r.plan.Steps[r.idx]
	if step.RequiresInput {
		if v, ok := r.inputs[step.ID]; !ok || v == "" {
			r.mu.Unlock()
			return ErrInputRequired
		}
	}
	r.stopCountdownLocked()

	if r.idx == len(r.plan.Steps)-1 {
		r.closed = true
		r.mu.Unlock()
		r.complete.Do(func() {
			if r.onComplete != nil {
				r.onComplete()
			}
		})
		return nil
	}

	r.idx++
	r.enterStepLocked()
	r.mu.Unlock()
	return nil
}

// Back moves to the previous step. Recorded inputs are kept so the
// participant can revise rather than retype.
func (r *Runtime) Back() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.idx == 0 {
		return ErrAtFirstStep
	}
	r.stopCountdownLocked()
	r.idx--
	r.enterStepLocked()
	return nil
}

// Closed reports whether the runtime has completed or been closed.
func (r *Runtime) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Close abandons the runtime: the countdown is cancelled, OnComplete never
// fires, and nothing is persisted. Safe to call multiple times.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.stopCountdownLocked()
	// Burn the completion slot so a racing countdown expiry cannot fire it.
	r.complete.Do(func() {})
}
