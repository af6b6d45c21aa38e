package pipeline

import (
	"bytes"
	"cmp"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/cache"
	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/dataset"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/observability"
	"github.com/matzehuels/vizbind/pkg/sink"
	"github.com/matzehuels/vizbind/pkg/spec"
	"github.com/matzehuels/vizbind/pkg/transition"
)

// epoch is the start of every pipeline clock so that runs are reproducible.
var epoch = time.Unix(0, 0).UTC()

// Runner executes the pipeline with caching. It holds no per-run state and
// may be shared between goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses cache.DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Inputs are the decoded pipeline inputs.
type Inputs struct {
	Chart  *spec.Chart
	Config chart.Config
	Ease   transition.Ease
	Frames [][]accessor.Datum
}

// Decode parses the spec and dataset of opts and applies the overrides.
func Decode(opts Options) (*Inputs, error) {
	c, err := spec.Decode(opts.Spec, opts.SpecFormat)
	if err != nil {
		return nil, err
	}
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	ease, err := c.EaseFunc()
	if err != nil {
		return nil, err
	}
	frames, err := dataset.ReadFrames(bytes.NewReader(opts.Dataset), opts.DatasetFormat)
	if err != nil {
		return nil, err
	}
	if opts.Width > 0 {
		cfg.Width = opts.Width
	}
	if opts.Height > 0 {
		cfg.Height = opts.Height
	}
	if opts.Duration != nil {
		cfg.Duration = *opts.Duration
	}
	cfg.SetDefaults()
	return &Inputs{Chart: c, Config: cfg, Ease: ease, Frames: frames}, nil
}

// Animation is the outcome of driving a chart through its frames.
type Animation struct {
	Scene       *sink.Scene
	Recorder    *sink.Recorder
	Diagnostics []errors.Diagnostic
	Frames      int
	Ticks       int
}

// Animate applies every dataset frame to a fresh chart instance. Between
// frames the clock advances by the interval; after the last frame it runs
// for opts.Elapsed, or until every transition has finished.
func (r *Runner) Animate(ctx context.Context, in *Inputs, opts Options) (*Animation, error) {
	opts.SetDefaults()
	clock := transition.NewClock(epoch)
	anim := &Animation{Scene: sink.NewScene(), Recorder: &sink.Recorder{}}
	inst := chart.New(sink.Tee(anim.Scene, anim.Recorder),
		chart.WithScheduler(clock),
		chart.WithLogger(opts.Logger),
		chart.WithEase(in.Ease),
	)
	defer inst.Dispose()

	interval := opts.Interval
	if interval == 0 {
		interval = in.Config.Duration
	}
	for i, data := range in.Frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := inst.Update(ctx, data, in.Config)
		if err != nil {
			return nil, errors.Wrap(cmp.Or(errors.GetCode(err), errors.ErrCodeInternal), err, "frame %d", i)
		}
		anim.Diagnostics = append(anim.Diagnostics, res.Diagnostics...)
		anim.Frames++
		if i < len(in.Frames)-1 {
			n, err := advance(ctx, clock, interval, opts.FrameInterval)
			anim.Ticks += n
			if err != nil {
				return nil, err
			}
		}
	}

	if opts.Elapsed > 0 {
		n, err := advance(ctx, clock, opts.Elapsed, opts.FrameInterval)
		anim.Ticks += n
		if err != nil {
			return nil, err
		}
	} else {
		anim.Ticks += clock.Drain(opts.FrameInterval, MaxFrames)
	}
	return anim, ctx.Err()
}

// advance moves clock forward by total in steps of at most step and
// returns the number of steps. Once nothing is scheduled, or after
// MaxFrames steps, the clock jumps straight to the end.
func advance(ctx context.Context, clock *transition.Clock, total, step time.Duration) (int, error) {
	end := clock.Now().Add(total)
	n := 0
	for done := time.Duration(0); done < total; done += step {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if clock.Pending() == 0 || n >= MaxFrames {
			clock.Set(end)
			return n, nil
		}
		clock.Advance(min(step, total-done))
		n++
	}
	return n, nil
}

// Execute runs the pipeline, serving every requested format from the cache
// when possible.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	res := &Result{InputHash: opts.InputHash()}
	if !opts.Refresh {
		if artifacts, ok := r.cached(ctx, res.InputHash, opts); ok {
			res.Artifacts = artifacts
			res.CacheHit = true
			r.Logger.Debug("artifacts from cache", "hash", res.InputHash[:12], "formats", opts.Formats)
			return res, nil
		}
	}

	start := time.Now()
	observability.Render().OnRenderStart(ctx, opts.Formats)
	artifacts, err := r.render(ctx, opts, res)
	res.Stats.RenderTime = time.Since(start)
	observability.Render().OnRenderComplete(ctx, opts.Formats, res.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	res.Artifacts = artifacts

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(res.InputHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	r.Logger.Info("rendered chart",
		"frames", res.Stats.Frames,
		"ticks", res.Stats.Ticks,
		"marks", res.Stats.Marks,
		"diagnostics", len(res.Diagnostics),
		"duration", res.Stats.RenderTime)
	return res, nil
}

func (r *Runner) cached(ctx context.Context, hash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "format", format, "error", err)
		}
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) render(ctx context.Context, opts Options, res *Result) (map[string][]byte, error) {
	in, err := Decode(opts)
	if err != nil {
		return nil, err
	}
	anim, err := r.Animate(ctx, in, opts)
	if err != nil {
		return nil, err
	}
	res.Diagnostics = anim.Diagnostics
	res.Stats.Frames = anim.Frames
	res.Stats.Ticks = anim.Ticks
	res.Stats.Commands = len(anim.Recorder.Commands())
	res.Stats.Marks = anim.Scene.Len()

	title := opts.Title
	if title == "" {
		title = in.Chart.Title
	}
	return Export(anim, opts.Formats,
		sink.WithSize(in.Config.Width, in.Config.Height),
		sink.WithBackground(opts.Background),
		sink.WithTitle(title),
	)
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}
