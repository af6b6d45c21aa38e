package chart

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/join"
	"github.com/matzehuels/vizbind/pkg/observability"
	"github.com/matzehuels/vizbind/pkg/scale"
	"github.com/matzehuels/vizbind/pkg/transition"
)

// Instance is one chart with its own render state.
type Instance struct {
	mu       sync.Mutex
	id       string
	surface  Surface
	sched    transition.Scheduler
	logger   *log.Logger
	policy   join.Policy
	ease     transition.Ease
	state    *State
	inPass   bool
	disposed bool
}

// Option configures an Instance.
type Option func(*Instance)

// WithScheduler sets the animation clock. The default is a Clock that only
// moves when the host advances it.
func WithScheduler(s transition.Scheduler) Option {
	return func(in *Instance) {
		if s != nil {
			in.sched = s
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(in *Instance) {
		if l != nil {
			in.logger = l
		}
	}
}

// WithDuplicatePolicy sets how duplicate datum keys are handled.
func WithDuplicatePolicy(p join.Policy) Option {
	return func(in *Instance) { in.policy = p }
}

// WithEase sets the easing of every transition.
func WithEase(e transition.Ease) Option {
	return func(in *Instance) { in.ease = e }
}

// New creates a chart instance drawing to surface.
func New(surface Surface, opts ...Option) *Instance {
	in := &Instance{
		id:      uuid.NewString(),
		surface: surface,
		sched:   transition.NewClock(time.Now()),
		logger:  log.New(io.Discard),
		ease:    transition.CubicInOut,
		state:   newState(),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.state.engine = transition.NewEngine(
		lockedScheduler{Scheduler: in.sched, mu: &in.mu},
		transition.WithEase(in.ease),
		transition.WithListener(in.onFrame),
	)
	return in
}

// ID returns the instance's unique identifier.
func (in *Instance) ID() string { return in.id }

// Result describes a completed update pass.
type Result struct {
	ID          string
	Commands    []Command
	Diagnostics []errors.Diagnostic
	Join        join.Result
	X, Y        scale.Scale
	Marks       int
}

// Update runs one update pass with data and cfg.
func (in *Instance) Update(ctx context.Context, data []accessor.Datum, cfg Config) (*Result, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.disposed {
		return nil, errors.New(errors.ErrCodeDisposed, "chart %s is disposed", in.id)
	}

	start := time.Now()
	observability.Update().OnUpdateStart(ctx, in.id, len(data))
	res, err := in.update(data, cfg)

	var stats observability.UpdateStats
	if res != nil {
		stats.Entering, stats.Updating, stats.Exiting = res.Join.Counts()
		stats.Commands = len(res.Commands)
		stats.Diagnostics = len(res.Diagnostics)
	}
	observability.Update().OnUpdateComplete(ctx, in.id, stats, time.Since(start), err)
	return res, err
}

func (in *Instance) update(data []accessor.Datum, cfg Config) (*Result, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	items, diags, err := join.Keys(data, cfg.Key, in.policy)
	if err != nil {
		return nil, err
	}

	bounds := cfg.Bounds()
	x, y, sdiags, err := buildScales(&cfg, data, bounds)
	if err != nil {
		return nil, err
	}
	diags = append(diags, sdiags...)

	pctx := &Context{
		Data:   data,
		Items:  items,
		X:      x,
		Y:      y,
		Bounds: bounds,
		Width:  cfg.Width,
		Height: cfg.Height,
	}
	marks := make(map[string][]Mark, len(cfg.Components))
	order := make([]string, len(cfg.Components))
	total := 0
	for i, comp := range cfg.Components {
		name := comp.Name()
		ms, cdiags, err := comp.Marks(pctx)
		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInternal
			}
			return nil, errors.Wrap(code, err, "component %q", name)
		}
		if err := checkMarkKeys(name, ms); err != nil {
			return nil, err
		}
		for j := range cdiags {
			if cdiags[j].Source == "" {
				cdiags[j].Source = name
			}
		}
		diags = append(diags, cdiags...)
		marks[name] = ms
		order[i] = name
		total += len(ms)
	}

	// Nothing below can fail on configuration: commit.
	st := in.state
	dur := cfg.Duration
	if !st.rendered {
		dur = 0
	}
	dj := join.Join(st.Items, items)
	cmds := in.transition(&cfg, order, marks, dur)

	st.Items = items
	st.X, st.Y = x, y
	st.Marks = marks
	st.Order = order
	st.rendered = true

	res := &Result{
		ID:          in.id,
		Commands:    cmds,
		Diagnostics: diags,
		Join:        dj,
		X:           x,
		Y:           y,
		Marks:       total,
	}

	e, u, xn := dj.Counts()
	in.logger.Debug("update pass", "id", in.id, "entering", e, "updating", u, "exiting", xn,
		"marks", total, "commands", len(cmds), "duration", dur)
	for _, d := range diags {
		in.logger.Warn("degenerate input", "diagnostic", d.String())
	}

	if err := in.surface.Draw(cmds); err != nil {
		return res, errors.Wrap(errors.ErrCodeInternal, err, "draw")
	}
	return res, nil
}

func checkMarkKeys(component string, ms []Mark) error {
	seen := make(map[string]bool, len(ms))
	for _, m := range ms {
		if seen[m.Key] {
			return errors.New(errors.ErrCodeConfiguration, "component %q produced mark key %q twice", component, m.Key)
		}
		seen[m.Key] = true
	}
	return nil
}

// transition joins the marks of every component against the previous pass
// and starts the transitions. Components that disappeared exit all marks.
func (in *Instance) transition(cfg *Config, order []string, marks map[string][]Mark, dur time.Duration) []Command {
	st := in.state
	in.inPass = true
	defer func() { in.inPass = false }()

	names := append([]string(nil), order...)
	for _, name := range st.Order {
		if _, ok := marks[name]; !ok {
			names = append(names, name)
		}
	}

	var cmds []Command
	for _, name := range names {
		prev, next := st.Marks[name], marks[name]
		r := join.Join(markItems(prev), markItems(next))
		entering := make(map[string]bool, len(r.Entering))
		for _, it := range r.Entering {
			entering[it.Key] = true
		}

		for _, m := range next {
			ek := engineKey(name, m.Key)
			st.shapes[ek] = markRef{component: name, key: m.Key, shape: m.Shape}
			target := m.Attrs
			cmd := Command{
				Component: name,
				Key:       m.Key,
				Shape:     m.Shape,
				Target:    target.Clone(),
				Duration:  dur,
				Done:      dur == 0,
			}
			if entering[m.Key] {
				from := target.Merge(cfg.Enter).Merge(m.Enter)
				if cur, ok := st.engine.Current(ek); ok {
					from = cur
				}
				st.engine.Enter(ek, from, target, dur)
				cmd.Phase = PhaseEnter
				cmd.Attrs = from
			} else {
				cur, ok := st.engine.Current(ek)
				if !ok {
					cur = target.Clone()
				}
				st.engine.Update(ek, target, dur)
				cmd.Phase = PhaseUpdate
				cmd.Attrs = cur
			}
			if dur == 0 {
				cmd.Attrs = target.Clone()
			}
			cmds = append(cmds, cmd)
		}

		for _, it := range r.Exiting {
			m := prev[it.Index]
			ek := engineKey(name, m.Key)
			cur, ok := st.engine.Current(ek)
			if !ok {
				cur = m.Attrs.Clone()
			}
			to := cfg.Exit.Merge(m.Exit)
			st.engine.Exit(ek, to, dur)
			cmd := Command{
				Component: name,
				Key:       m.Key,
				Shape:     m.Shape,
				Phase:     PhaseExit,
				Attrs:     cur,
				Target:    cur.Merge(to),
				Duration:  dur,
				Done:      dur == 0,
			}
			if dur == 0 {
				delete(st.shapes, ek)
			}
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// onFrame forwards transition ticks to the surface. Frames sampled during
// a pass are already covered by the pass's commands.
func (in *Instance) onFrame(f transition.Frame) {
	if in.inPass || in.disposed {
		return
	}
	ref, ok := in.state.shapes[f.Key]
	if !ok {
		ref.component, ref.key = splitEngineKey(f.Key)
	}
	if f.Done && f.Phase == transition.PhaseExit {
		delete(in.state.shapes, f.Key)
	}
	cmd := Command{
		Component: ref.component,
		Key:       ref.key,
		Shape:     ref.shape,
		Phase:     f.Phase.String(),
		Attrs:     f.Attrs,
		Frame:     true,
		Done:      f.Done,
	}
	if err := in.surface.Draw([]Command{cmd}); err != nil {
		in.logger.Error("draw frame", "id", in.id, "key", ref.key, "error", err)
	}
}

func buildScales(cfg *Config, data []accessor.Datum, b Rect) (x, y scale.Scale, diags []errors.Diagnostic, err error) {
	var xs, ys accessor.Series
	hasXY := false
	for _, comp := range cfg.Components {
		if xy, ok := comp.(XYComponent); ok {
			hasXY = true
			cx, cy := xy.XYChannels()
			xs = append(xs, cx...)
			ys = append(ys, cy...)
		}
	}
	if !hasXY {
		return nil, nil, nil, nil
	}

	x, xd, err := scale.Build(scaleConfig(cfg.X, xs, [2]float64{b.X, b.X + b.Width}), data)
	if err != nil {
		return nil, nil, nil, errors.Wrap(errors.GetCode(err), err, "x scale")
	}
	y, yd, err := scale.Build(scaleConfig(cfg.Y, ys, [2]float64{b.Y + b.Height, b.Y}), data)
	if err != nil {
		return nil, nil, nil, errors.Wrap(errors.GetCode(err), err, "y scale")
	}
	for i := range xd {
		xd[i].Source = "x scale"
	}
	for i := range yd {
		yd[i].Source = "y scale"
	}
	return x, y, append(xd, yd...), nil
}

func scaleConfig(o ScaleOptions, series accessor.Series, rng [2]float64) scale.Config {
	return scale.Config{
		Type:         o.Type,
		Series:       series,
		Domain:       o.Domain,
		Range:        rng,
		PaddingInner: o.PaddingInner,
		PaddingOuter: o.PaddingOuter,
		Nice:         o.Nice,
		Clamp:        o.Clamp,
	}
}

// Current returns the rendered attributes of a mark at the scheduler's
// current time.
func (in *Instance) Current(component, key string) (transition.Attrs, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state.engine.Current(engineKey(component, key))
}

// Marks returns the marks a component produced in the last pass.
func (in *Instance) Marks(component string) []Mark {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]Mark(nil), in.state.Marks[component]...)
}

// InFlight returns the number of running transitions.
func (in *Instance) InFlight() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state.engine.InFlight()
}

// Rendered returns the number of marks on screen, exiting marks included.
func (in *Instance) Rendered() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.state.engine.Len()
}

// Dispose cancels every transition and releases the render state. Later
// updates fail with a DISPOSED error. Dispose is idempotent.
func (in *Instance) Dispose() {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.disposed {
		return
	}
	st := in.state
	st.engine.Dispose()
	st.Items, st.X, st.Y, st.Order = nil, nil, nil, nil
	clear(st.Marks)
	clear(st.shapes)
	in.disposed = true
	in.logger.Debug("disposed", "id", in.id)
}

// lockedScheduler runs engine ticks under the instance mutex so frames
// never interleave with an update pass.
type lockedScheduler struct {
	transition.Scheduler
	mu *sync.Mutex
}

func (s lockedScheduler) Schedule(fn transition.Tick) transition.Token {
	return s.Scheduler.Schedule(func(now time.Time) bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn(now)
	})
}
