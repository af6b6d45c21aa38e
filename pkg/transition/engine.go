package transition

import (
	"maps"
	"slices"
	"time"

	"github.com/matzehuels/vizbind/pkg/observability"
)

// Phase is the join group a transition belongs to.
type Phase int

const (
	PhaseEnter Phase = iota
	PhaseUpdate
	PhaseExit
)

func (p Phase) String() string {
	switch p {
	case PhaseUpdate:
		return "update"
	case PhaseExit:
		return "exit"
	default:
		return "enter"
	}
}

// Frame is one sampled state of a mark.
type Frame struct {
	Key   string
	Attrs Attrs
	Phase Phase
	Done  bool // Last frame of the transition
}

// Listener receives every sampled frame.
type Listener func(Frame)

// state is the rendered state of one key.
type state struct {
	current Attrs
	target  Attrs
	phase   Phase

	// In-flight transition. tok is zero when idle.
	tok    Token
	start  time.Time
	dur    time.Duration
	interp func(float64) Attrs
}

// Engine owns the transitions of one chart instance. It is not safe for
// concurrent use; the chart serializes access.
type Engine struct {
	sched    Scheduler
	ease     Ease
	listener Listener
	states   map[string]*state
	disposed bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithEase sets the easing applied to every transition.
func WithEase(e Ease) Option {
	return func(en *Engine) {
		if e != nil {
			en.ease = e
		}
	}
}

// WithListener registers a callback for every sampled frame.
func WithListener(l Listener) Option {
	return func(en *Engine) { en.listener = l }
}

// NewEngine returns an engine ticking on sched.
func NewEngine(sched Scheduler, opts ...Option) *Engine {
	e := &Engine{
		sched:  sched,
		ease:   CubicInOut,
		states: make(map[string]*state),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enter animates a new mark from from to to. A key that is still rendered,
// for example one that is exiting, starts from its current value instead.
func (e *Engine) Enter(key string, from, to Attrs, d time.Duration) {
	if e.disposed {
		return
	}
	if _, ok := e.states[key]; ok {
		e.animate(key, PhaseEnter, to, d)
		return
	}
	e.states[key] = &state{current: from.Clone(), target: from.Clone(), phase: PhaseEnter}
	e.animate(key, PhaseEnter, to, d)
}

// Update animates key from its current, possibly mid-flight, value to to.
// An unknown key is set immediately.
func (e *Engine) Update(key string, to Attrs, d time.Duration) {
	if e.disposed {
		return
	}
	if _, ok := e.states[key]; !ok {
		e.Set(key, to)
		return
	}
	e.animate(key, PhaseUpdate, to, d)
}

// Exit animates key to the exit state and removes it once the animation
// completes. Unknown keys are ignored.
func (e *Engine) Exit(key string, to Attrs, d time.Duration) {
	if e.disposed {
		return
	}
	if _, ok := e.states[key]; !ok {
		return
	}
	e.animate(key, PhaseExit, to, d)
}

// Set applies attrs immediately, cancelling any transition for key.
func (e *Engine) Set(key string, attrs Attrs) {
	if e.disposed {
		return
	}
	st, ok := e.states[key]
	if !ok {
		st = &state{}
		e.states[key] = st
	}
	e.cancel(key, st)
	st.current = attrs.Clone()
	st.target = attrs.Clone()
	st.phase = PhaseUpdate
	e.emit(Frame{Key: key, Attrs: st.current.Clone(), Phase: PhaseUpdate, Done: true})
}

func (e *Engine) animate(key string, phase Phase, to Attrs, d time.Duration) {
	st := e.states[key]
	now := e.sched.Now()
	from := e.sample(st, now)
	e.cancel(key, st)

	st.current = from
	st.target = to.Clone()
	st.phase = phase

	if d <= 0 {
		e.finish(key, st, Interpolate(from, st.target)(1))
		return
	}

	st.start = now
	st.dur = d
	st.interp = Interpolate(from, st.target)
	observability.Transition().OnTransitionStart(key, phase.String(), d)

	var tok Token
	tok = e.sched.Schedule(func(now time.Time) bool {
		if e.states[key] != st || st.tok != tok {
			return true
		}
		t := progress(st.start, st.dur, now)
		if t >= 1 {
			st.tok = 0
			e.finish(key, st, st.interp(1))
			observability.Transition().OnTransitionComplete(key, phase.String())
			return true
		}
		st.current = st.interp(e.ease(t))
		e.emit(Frame{Key: key, Attrs: st.current.Clone(), Phase: phase})
		return false
	})
	st.tok = tok
}

// finish commits the final attributes of a transition.
func (e *Engine) finish(key string, st *state, final Attrs) {
	st.current = final
	st.interp = nil
	e.emit(Frame{Key: key, Attrs: final.Clone(), Phase: st.phase, Done: true})
	if st.phase == PhaseExit {
		delete(e.states, key)
	}
}

func (e *Engine) cancel(key string, st *state) {
	if st.tok == 0 {
		return
	}
	e.sched.Cancel(st.tok)
	st.tok = 0
	st.interp = nil
	observability.Transition().OnTransitionCancel(key, st.phase.String())
}

// sample returns st's value at now without advancing the transition.
func (e *Engine) sample(st *state, now time.Time) Attrs {
	if st.tok == 0 || st.interp == nil {
		return st.current.Clone()
	}
	t := progress(st.start, st.dur, now)
	if t >= 1 {
		return st.interp(1)
	}
	return st.interp(e.ease(t))
}

func progress(start time.Time, d time.Duration, now time.Time) float64 {
	if d <= 0 {
		return 1
	}
	t := float64(now.Sub(start)) / float64(d)
	if t < 0 {
		return 0
	}
	return min(t, 1)
}

func (e *Engine) emit(f Frame) {
	if e.listener != nil {
		e.listener(f)
	}
}

// Current returns key's value at the scheduler's current time.
func (e *Engine) Current(key string) (Attrs, bool) {
	st, ok := e.states[key]
	if !ok {
		return nil, false
	}
	return e.sample(st, e.sched.Now()), true
}

// Target returns the attributes key is animating toward.
func (e *Engine) Target(key string) (Attrs, bool) {
	st, ok := e.states[key]
	if !ok {
		return nil, false
	}
	return st.target.Clone(), true
}

// Phase returns the phase of key's latest transition.
func (e *Engine) Phase(key string) (Phase, bool) {
	st, ok := e.states[key]
	if !ok {
		return 0, false
	}
	return st.phase, true
}

// Active reports whether key has a transition in flight.
func (e *Engine) Active(key string) bool {
	st, ok := e.states[key]
	return ok && st.tok != 0
}

// Keys returns every rendered key in sorted order, exiting keys included.
func (e *Engine) Keys() []string {
	return slices.Sorted(maps.Keys(e.states))
}

// Len returns the number of rendered keys.
func (e *Engine) Len() int { return len(e.states) }

// InFlight returns the number of running transitions.
func (e *Engine) InFlight() int {
	n := 0
	for _, st := range e.states {
		if st.tok != 0 {
			n++
		}
	}
	return n
}

// Dispose cancels every transition and drops all state. The engine ignores
// further calls.
func (e *Engine) Dispose() {
	for _, key := range e.Keys() {
		e.cancel(key, e.states[key])
	}
	clear(e.states)
	e.disposed = true
}
