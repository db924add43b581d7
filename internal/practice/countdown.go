package practice

import (
	"sync"
	"time"
)

// defaultTickInterval is the countdown resolution. One tick per second
// matches what clients display.
const defaultTickInterval = time.Second

// Countdown counts a fixed duration down at 1 Hz, supporting pause, resume,
// and early end. The expire callback fires exactly once, whether the clock
// ran out or EndEarly was called; Stop cancels without firing it.
type Countdown struct {
	interval time.Duration
	onTick   func(remaining time.Duration)
	onExpire func()

	mu        sync.Mutex
	remaining time.Duration
	paused    bool
	stopped   bool
	done      chan struct{}
	expire    sync.Once
}

// CountdownOption configures a Countdown.
type CountdownOption func(*Countdown)

// WithTickInterval overrides the 1 Hz tick rate, for tests.
func WithTickInterval(d time.Duration) CountdownOption {
	return func(c *Countdown) { c.interval = d }
}

// NewCountdown starts a countdown over d. onTick is called after every
// elapsed interval with the time remaining; onExpire is called when the
// countdown reaches zero. Both callbacks may be nil and run on the
// countdown's own goroutine.
func NewCountdown(d time.Duration, onTick func(time.Duration), onExpire func(), opts ...CountdownOption) *Countdown {
	c := &Countdown{
		interval:  defaultTickInterval,
		onTick:    onTick,
		onExpire:  onExpire,
		remaining: d,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.run()
	return c
}

func (c *Countdown) run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.paused || c.stopped {
				c.mu.Unlock()
				continue
			}
			c.remaining -= c.interval
			if c.remaining < 0 {
				c.remaining = 0
			}
			remaining := c.remaining
			c.mu.Unlock()

			if c.onTick != nil {
				c.onTick(remaining)
			}
			if remaining == 0 {
				c.fireExpire()
				return
			}
		}
	}
}

func (c *Countdown) fireExpire() {
	c.expire.Do(func() {
		c.mu.Lock()
		c.stopped = true
		c.mu.Unlock()
		close(c.done)
		if c.onExpire != nil {
			c.onExpire()
		}
	})
}

// Remaining returns the time left.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Pause freezes the countdown. Ticks while paused do not decrement.
func (c *Countdown) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

// Resume continues a paused countdown.
func (c *Countdown) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

// EndEarly finishes the countdown immediately, firing the expire callback
// as if the clock had run out.
func (c *Countdown) EndEarly() {
	c.mu.Lock()
	c.remaining = 0
	alreadyStopped := c.stopped
	c.mu.Unlock()
	if !alreadyStopped {
		c.fireExpire()
	}
}

// Stop cancels the countdown without firing the expire callback. Safe to
// call multiple times and after expiry.
func (c *Countdown) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.mu.Unlock()

	// Burn the expire slot so a racing tick cannot fire it, then release
	// the run goroutine.
	c.expire.Do(func() { close(c.done) })
}
