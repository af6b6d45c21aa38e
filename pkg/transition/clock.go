package transition

import (
	"slices"
	"sync"
	"time"
)

// Token identifies a scheduled tick callback.
type Token uint64

// Tick is called on every host frame with the frame time. Returning true
// unregisters it.
type Tick func(now time.Time) (done bool)

// Scheduler is the host animation clock.
type Scheduler interface {
	Schedule(fn Tick) Token
	Cancel(tok Token)
	Now() time.Time
}

// Clock is a Scheduler advanced explicitly by its owner. Callbacks run
// synchronously inside Advance and Set, in registration order.
type Clock struct {
	mu    sync.Mutex
	now   time.Time
	next  Token
	ticks map[Token]Tick
}

var _ Scheduler = (*Clock)(nil)

// NewClock returns a clock reading start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start, ticks: make(map[Token]Tick)}
}

// Schedule registers fn. It first runs on the next Advance or Set.
func (c *Clock) Schedule(fn Tick) Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	c.ticks[c.next] = fn
	return c.next
}

// Cancel unregisters tok. Unknown tokens are ignored.
func (c *Clock) Cancel(tok Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ticks, tok)
}

// Now returns the clock's current time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of registered callbacks.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ticks)
}

// Advance moves the clock forward by d and runs one frame.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	t := c.now.Add(d)
	c.mu.Unlock()
	c.Set(t)
}

// Set moves the clock to t and runs one frame. Callbacks scheduled during
// the frame wait for the next one.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	toks := make([]Token, 0, len(c.ticks))
	for tok := range c.ticks {
		toks = append(toks, tok)
	}
	c.mu.Unlock()
	slices.Sort(toks)

	for _, tok := range toks {
		c.mu.Lock()
		fn, ok := c.ticks[tok]
		c.mu.Unlock()
		if !ok {
			continue
		}
		if fn(t) {
			c.Cancel(tok)
		}
	}
}

// Drain advances in steps of step until no callbacks remain or limit frames
// have run. It returns the number of frames run.
func (c *Clock) Drain(step time.Duration, limit int) int {
	n := 0
	for n < limit && c.Pending() > 0 {
		c.Advance(step)
		n++
	}
	return n
}
