package chart_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/component"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/join"
	"github.com/matzehuels/vizbind/pkg/transition"
)

var epoch = time.Unix(0, 0)

type recorder struct {
	passes [][]chart.Command
	frames []chart.Command
}

func (r *recorder) Draw(cmds []chart.Command) error {
	if len(cmds) == 1 && cmds[0].Frame {
		r.frames = append(r.frames, cmds[0])
		return nil
	}
	r.passes = append(r.passes, cmds)
	return nil
}

func (r *recorder) last() []chart.Command { return r.passes[len(r.passes)-1] }

func point(id string, x, y float64) map[string]any {
	return map[string]any{"id": id, "x": x, "y": y}
}

// config draws a scatter over fixed [0, 10] domains onto a 100x100 plot.
func config(d time.Duration) chart.Config {
	fixed := chart.ScaleOptions{Domain: []any{0.0, 10.0}}
	return chart.Config{
		Key:      accessor.Field("id"),
		Duration: d,
		Width:    100,
		Height:   100,
		Margin:   &chart.Margin{},
		X:        fixed,
		Y:        fixed,
		Components: []chart.Component{&component.Scatter{
			X: accessor.Field("x"),
			Y: accessor.SeriesOf(accessor.Field("y")),
		}},
	}
}

func newChart(t *testing.T) (*chart.Instance, *recorder, *transition.Clock) {
	t.Helper()
	rec := &recorder{}
	clock := transition.NewClock(epoch)
	in := chart.New(rec, chart.WithScheduler(clock), chart.WithEase(transition.Linear))
	t.Cleanup(in.Dispose)
	return in, rec, clock
}

func phases(cmds []chart.Command) map[string]string {
	out := make(map[string]string, len(cmds))
	for _, c := range cmds {
		out[c.Key] = c.Phase
	}
	return out
}

func TestUpdateScenario(t *testing.T) {
	ctx := context.Background()
	in, rec, _ := newChart(t)

	_, err := in.Update(ctx, []accessor.Datum{point("a", 1, 1), point("b", 2, 2)}, config(time.Second))
	require.NoError(t, err)
	res, err := in.Update(ctx, []accessor.Datum{point("b", 3, 3), point("c", 4, 4)}, config(time.Second))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"a": chart.PhaseExit,
		"b": chart.PhaseUpdate,
		"c": chart.PhaseEnter,
	}, phases(rec.last()))

	e, u, x := res.Join.Counts()
	assert.Equal(t, [3]int{1, 1, 1}, [3]int{e, u, x})

	// New marks come first in data order, then exits.
	keys := make([]string, 0, 3)
	for _, c := range rec.last() {
		keys = append(keys, c.Key)
	}
	assert.Equal(t, []string{"b", "c", "a"}, keys)
}

func TestFirstRenderIsImmediate(t *testing.T) {
	in, rec, clock := newChart(t)

	_, err := in.Update(context.Background(), []accessor.Datum{point("a", 5, 5)}, config(time.Second))
	require.NoError(t, err)

	cmd := rec.last()[0]
	assert.True(t, cmd.Done)
	assert.Zero(t, cmd.Duration)
	assert.Equal(t, cmd.Target, cmd.Attrs)
	assert.Equal(t, 0, in.InFlight())
	assert.Zero(t, clock.Pending())
}

func TestUpdateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	in, rec, _ := newChart(t)
	data := []accessor.Datum{point("a", 1, 2), point("b", 3, 4)}

	_, err := in.Update(ctx, data, config(0))
	require.NoError(t, err)
	first, err := json.Marshal(rec.last())
	require.NoError(t, err)

	_, err = in.Update(ctx, data, config(0))
	require.NoError(t, err)
	for _, c := range rec.last() {
		assert.Equal(t, chart.PhaseUpdate, c.Phase)
	}

	// Re-render the same data into a fresh chart: output is identical.
	other, rec2, _ := newChart(t)
	_, err = other.Update(ctx, data, config(0))
	require.NoError(t, err)
	second, err := json.Marshal(rec2.last())
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestSupersedeStartsFromCurrentValue(t *testing.T) {
	ctx := context.Background()
	in, rec, clock := newChart(t)

	_, err := in.Update(ctx, []accessor.Datum{point("a", 0, 0)}, config(time.Second))
	require.NoError(t, err)
	_, err = in.Update(ctx, []accessor.Datum{point("a", 10, 0)}, config(time.Second))
	require.NoError(t, err)

	clock.Advance(500 * time.Millisecond)
	cur, ok := in.Current("scatter", "a")
	require.True(t, ok)
	assert.InDelta(t, 50.0, cur["cx"], 1e-9)
	require.NotEmpty(t, rec.frames)

	_, err = in.Update(ctx, []accessor.Datum{point("a", 0, 0)}, config(time.Second))
	require.NoError(t, err)
	cmd := rec.last()[0]
	assert.Equal(t, chart.PhaseUpdate, cmd.Phase)
	assert.InDelta(t, 50.0, cmd.Attrs["cx"], 1e-9)
	assert.InDelta(t, 0.0, cmd.Target["cx"], 1e-9)

	clock.Advance(250 * time.Millisecond)
	cur, _ = in.Current("scatter", "a")
	assert.InDelta(t, 37.5, cur["cx"], 1e-9)
	assert.Equal(t, 1, in.InFlight())
}

func TestExitRemovesMarkWhenDone(t *testing.T) {
	ctx := context.Background()
	in, rec, clock := newChart(t)

	_, err := in.Update(ctx, []accessor.Datum{point("a", 1, 1), point("b", 2, 2)}, config(time.Second))
	require.NoError(t, err)
	_, err = in.Update(ctx, []accessor.Datum{point("b", 2, 2)}, config(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2, in.Rendered())

	clock.Drain(100*time.Millisecond, 20)
	assert.Equal(t, 1, in.Rendered())
	_, ok := in.Current("scatter", "a")
	assert.False(t, ok)

	last := rec.frames[len(rec.frames)-1]
	assert.Equal(t, "a", last.Key)
	assert.Equal(t, chart.PhaseExit, last.Phase)
	assert.Equal(t, "circle", last.Shape)
	assert.True(t, last.Done)
	assert.Equal(t, 0.0, last.Attrs["r"])
}

func TestConfigErrorLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	in, rec, _ := newChart(t)

	_, err := in.Update(ctx, []accessor.Datum{point("a", 1, 1)}, config(0))
	require.NoError(t, err)
	before := in.Marks("scatter")

	bad := config(0)
	bad.Components = append(bad.Components, &component.Axis{Type: "z"})
	_, err = in.Update(ctx, []accessor.Datum{point("b", 2, 2)}, bad)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))

	assert.Len(t, rec.passes, 1)
	assert.Equal(t, before, in.Marks("scatter"))

	neg := config(-time.Second)
	_, err = in.Update(ctx, nil, neg)
	assert.True(t, errors.IsConfiguration(err))

	empty := config(0)
	empty.Components = nil
	_, err = in.Update(ctx, nil, empty)
	assert.True(t, errors.IsConfiguration(err))
}

func TestDuplicateKeys(t *testing.T) {
	ctx := context.Background()
	data := []accessor.Datum{point("a", 1, 1), point("a", 2, 2)}

	in, _, _ := newChart(t)
	res, err := in.Update(ctx, data, config(0))
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, errors.DiagDuplicateKey, res.Diagnostics[0].Code)
	assert.Equal(t, 1, res.Marks)

	strict := chart.New(&recorder{}, chart.WithDuplicatePolicy(join.Reject))
	_, err = strict.Update(ctx, data, config(0))
	assert.True(t, errors.Is(err, errors.ErrCodeDuplicateKey))
}

type twinMarks struct{}

func (twinMarks) Name() string { return "twins" }

func (twinMarks) Marks(*chart.Context) ([]chart.Mark, []errors.Diagnostic, error) {
	m := chart.Mark{Key: "same", Shape: "rect", Attrs: transition.Attrs{"x": 1.0}}
	return []chart.Mark{m, m}, nil, nil
}

func TestDuplicateMarkKeys(t *testing.T) {
	in, rec, _ := newChart(t)
	cfg := config(0)
	cfg.Components = append(cfg.Components, twinMarks{})

	_, err := in.Update(context.Background(), []accessor.Datum{point("a", 1, 1)}, cfg)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err), "got %v", err)
	assert.Empty(t, rec.passes)
}

func TestDispose(t *testing.T) {
	ctx := context.Background()
	in, _, clock := newChart(t)

	_, err := in.Update(ctx, []accessor.Datum{point("a", 1, 1)}, config(time.Second))
	require.NoError(t, err)
	_, err = in.Update(ctx, []accessor.Datum{point("a", 9, 9)}, config(time.Second))
	require.NoError(t, err)
	require.Equal(t, 1, in.InFlight())

	in.Dispose()
	in.Dispose()
	assert.Equal(t, 0, in.InFlight())
	assert.Zero(t, clock.Pending())

	_, err = in.Update(ctx, nil, config(0))
	assert.True(t, errors.Is(err, errors.ErrCodeDisposed))
}

func TestRemovedComponentExits(t *testing.T) {
	ctx := context.Background()
	in, rec, _ := newChart(t)
	data := []accessor.Datum{point("a", 1, 1)}

	cfg := config(0)
	cfg.Components = append(cfg.Components, &component.Axis{Type: component.AxisX})
	_, err := in.Update(ctx, data, cfg)
	require.NoError(t, err)

	_, err = in.Update(ctx, data, config(0))
	require.NoError(t, err)
	for _, c := range rec.last() {
		if c.Component == "x-axis" {
			assert.Equal(t, chart.PhaseExit, c.Phase)
			assert.True(t, c.Done)
		}
	}
	assert.Empty(t, in.Marks("x-axis"))
}
