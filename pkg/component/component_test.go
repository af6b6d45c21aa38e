package component

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/color"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/hierarchy"
	"github.com/matzehuels/vizbind/pkg/join"
	"github.com/matzehuels/vizbind/pkg/scale"
)

func point(id string, x, y float64) map[string]any {
	return map[string]any{"id": id, "x": x, "y": y}
}

// plot returns a 100x100 context with x and y mapped from [0, 10].
func plot(t *testing.T, data ...accessor.Datum) *chart.Context {
	t.Helper()
	items, _, err := join.Keys(data, accessor.Field("id"), join.FirstWins)
	require.NoError(t, err)
	return &chart.Context{
		Data:   data,
		Items:  items,
		X:      scale.NewLinear(0, 10, [2]float64{0, 100}),
		Y:      scale.NewLinear(0, 10, [2]float64{100, 0}),
		Bounds: chart.Rect{Width: 100, Height: 100},
		Width:  100,
		Height: 100,
	}
}

func keys(ms []chart.Mark) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Key
	}
	return out
}

func TestLineMarks(t *testing.T) {
	ctx := plot(t, point("a", 0, 0), point("b", 5, 10), map[string]any{"id": "c", "x": "n/a", "y": 1.0})
	l := &Line{X: accessor.Field("x"), Y: accessor.SeriesOf(accessor.Field("y"), accessor.Constant(5))}

	ms, diags, err := l.Marks(ctx)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, []string{"y0", "y1"}, keys(ms))
	assert.Equal(t, []float64{0, 100, 50, 0}, ms[0].Attrs["points"])
	assert.Equal(t, []float64{0, 50, 50, 50}, ms[1].Attrs["points"])
	assert.Equal(t, Palette[1], ms[1].Attrs["stroke"])
	assert.Equal(t, 0.0, ms[0].Enter["opacity"])
}

func TestLineErrors(t *testing.T) {
	ctx := plot(t, point("a", 0, 0))

	_, _, err := (&Line{X: accessor.Field("x"), Y: accessor.SeriesOf(accessor.Field("y")), Curve: "spline"}).Marks(ctx)
	assert.True(t, errors.IsConfiguration(err))

	_, diags, err := (&Line{X: accessor.Field("x"), Y: accessor.SeriesOf(accessor.Field("missing"))}).Marks(ctx)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, errors.DiagDegenerateInput, diags[0].Code)
}

func TestScatterKeys(t *testing.T) {
	ctx := plot(t, point("a", 1, 2), point("b", 3, 4))

	single := &Scatter{X: accessor.Field("x"), Y: accessor.SeriesOf(accessor.Field("y"))}
	ms, _, err := single.Marks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys(ms))
	assert.InDelta(t, 10.0, ms[0].Attrs["cx"], 1e-9)
	assert.InDelta(t, 80.0, ms[0].Attrs["cy"], 1e-9)
	assert.Equal(t, float64(DefaultPointRadius), ms[0].Attrs["r"])
	assert.Equal(t, 0.0, ms[0].Enter["r"])

	multi := &Scatter{
		X:    accessor.Field("x"),
		Y:    accessor.SeriesOf(accessor.Field("y"), accessor.Field("x")),
		Size: accessor.Constant(2),
	}
	ms, _, err = multi.Marks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a:y0", "b:y0", "a:y1", "b:y1"}, keys(ms))
	assert.Equal(t, 2.0, ms[0].Attrs["r"])
}

func TestAxisBandTicks(t *testing.T) {
	ctx := plot(t)
	ctx.X = scale.NewBand([]any{"mon", "tue"}, [2]float64{0, 100}, 0, 0)

	ms, _, err := (&Axis{Type: AxisX, Label: "day"}).Marks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"domain", "tick:mon", "tick:tue", "label"}, keys(ms))
	assert.InDelta(t, 25.0, ms[1].Attrs["x"], 1e-9)
	assert.InDelta(t, 75.0, ms[2].Attrs["x"], 1e-9)
	assert.Equal(t, 100.0, ms[1].Attrs["y"])
}

func TestAxisLinearTicks(t *testing.T) {
	ctx := plot(t)
	ms, _, err := (&Axis{Type: AxisY}).Marks(ctx)
	require.NoError(t, err)
	require.Greater(t, len(ms), 2)
	assert.Equal(t, "domain", ms[0].Key)
	assert.Contains(t, keys(ms), "tick:0")
	for _, m := range ms[1:] {
		assert.True(t, strings.HasPrefix(m.Key, "tick:"), m.Key)
		assert.Equal(t, "end", m.Attrs["anchor"])
		assert.Equal(t, 0.0, m.Attrs["x"])
	}
}

func TestAxisTicksDropNegativeZero(t *testing.T) {
	ctx := plot(t)
	ctx.Y = scale.NewLinear(-10, 10, [2]float64{100, 0})
	for _, n := range []int{1, 2, 5} {
		var seen []float64
		a := &Axis{Type: AxisY, NumTicks: n, TickFormat: func(v float64) string {
			seen = append(seen, v)
			return strconv.FormatFloat(v, 'g', -1, 64)
		}}
		ms, _, err := a.Marks(ctx)
		require.NoError(t, err)
		for _, v := range seen {
			assert.False(t, v == 0 && math.Signbit(v), "NumTicks=%d produced -0", n)
		}
		for _, m := range ms {
			assert.NotEqual(t, "-0", m.Attrs["text"], "NumTicks=%d", n)
		}
	}

	ms, _, err := (&Axis{Type: AxisX, NumTicks: 1}).Marks(plot(t))
	require.NoError(t, err)
	assert.NotContains(t, keys(ms), "tick:-0")
}

func TestAxisErrors(t *testing.T) {
	ctx := plot(t)
	_, _, err := (&Axis{Type: "z"}).Marks(ctx)
	assert.True(t, errors.IsConfiguration(err))

	ctx.X = nil
	_, _, err = (&Axis{Type: AxisX}).Marks(ctx)
	assert.True(t, errors.IsConfiguration(err))
}

func TestPlotband(t *testing.T) {
	ctx := plot(t)
	p := &Plotband{From: 2, To: 4, Color: "#ff0000", ColorAlpha: 0.5, LabelText: "target"}

	ms, diags, err := p.Marks(ctx)
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Equal(t, []string{"band", "label"}, keys(ms))

	band := ms[0].Attrs
	assert.InDelta(t, 60.0, band["y"], 1e-9)
	assert.InDelta(t, 20.0, band["height"], 1e-9)
	assert.Equal(t, 100.0, band["width"])
	assert.Equal(t, "rgba(255, 0, 0, 0.5)", band["fill"])

	label := ms[1].Attrs
	assert.Equal(t, "end", label["anchor"])
	assert.InDelta(t, 100.0-DefaultLabelOffset, label["x"], 1e-9)
	assert.InDelta(t, 60.0+DefaultLabelOffset, label["y"], 1e-9)
}

func TestPlotbandFallbackColor(t *testing.T) {
	p := &Plotband{Color: "orange"}
	assert.Equal(t, color.RGBA(DefaultPlotbandColor, DefaultPlotbandAlpha), p.Fill())
}

func TestPlotbandLabelPositions(t *testing.T) {
	ctx := plot(t)
	for _, pos := range LabelPositions {
		p := &Plotband{Axis: AxisX, From: 1, To: 9, LabelText: "x", LabelPosition: pos}
		_, _, err := p.Marks(ctx)
		assert.NoError(t, err, pos)
	}
	_, _, err := (&Plotband{From: 1, To: 2, LabelText: "x", LabelPosition: "middle"}).Marks(ctx)
	assert.True(t, errors.IsConfiguration(err))
}

func TestCrosshair(t *testing.T) {
	ctx := plot(t, point("a", 1, 2), point("b", 4, 6), point("c", 9, 1))
	c := &Crosshair{
		X:        accessor.Field("x"),
		Y:        accessor.SeriesOf(accessor.Field("y"), accessor.Constant(0)),
		Position: 5,
	}

	ms, _, err := c.Marks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"line", "circle:0", "circle:1"}, keys(ms))
	assert.InDelta(t, 40.0, ms[0].Attrs["x1"], 1e-9)
	assert.InDelta(t, 40.0, ms[1].Attrs["cx"], 1e-9)
	assert.InDelta(t, 40.0, ms[1].Attrs["cy"], 1e-9)
	assert.Equal(t, CrosshairCircleStroke, ms[1].Attrs["stroke"])

	c.Position = nil
	ms, _, err = c.Marks(ctx)
	require.NoError(t, err)
	assert.Empty(t, ms)
}

func TestNearestTiesGoToEarlier(t *testing.T) {
	ctx := plot(t, point("a", 2, 0), point("b", 4, 0))
	it, ok := Nearest(ctx.Items, ctx.Data, accessor.Field("x"), 3)
	require.True(t, ok)
	assert.Equal(t, "a", it.Key)

	_, ok = Nearest(nil, nil, accessor.Field("x"), 3)
	assert.False(t, ok)
}

func TestChordMarks(t *testing.T) {
	data := []accessor.Datum{
		map[string]any{"id": "a", "group": "g"},
		map[string]any{"id": "b", "group": "g"},
		map[string]any{"id": "c", "group": "h"},
	}
	ctx := plot(t, data...)
	c := &Chord{
		Hierarchy: hierarchy.Config{
			Key:    accessor.Field("id"),
			Levels: []hierarchy.Level{{Name: "group", Accessor: accessor.Field("group")}},
		},
		Links: []accessor.Datum{map[string]any{"s": "a", "t": "c"}},
		LinkConfig: hierarchy.LinkConfig{
			Source: accessor.Field("s"),
			Target: accessor.Field("t"),
		},
	}

	ms, diags, err := c.Marks(ctx)
	require.NoError(t, err)
	assert.Empty(t, diags)

	var nodes, labels, ribbons int
	byKey := make(map[string]chart.Mark, len(ms))
	for _, m := range ms {
		byKey[m.Key] = m
		switch {
		case strings.HasPrefix(m.Key, "node:"):
			nodes++
			assert.Equal(t, "arc", m.Shape)
			assert.Equal(t, m.Attrs["x0"], m.Enter["x1"])
		case strings.HasPrefix(m.Key, "label:"):
			labels++
		case strings.HasPrefix(m.Key, "ribbon:"):
			ribbons++
		}
	}
	assert.Equal(t, 5, nodes)
	assert.Equal(t, 5, labels)
	assert.Equal(t, 1, ribbons)

	// Leaves take the color of their root group.
	g := byKey["node:g"].Attrs["fill"]
	assert.Equal(t, g, byKey["node:a"].Attrs["fill"])
	assert.NotEqual(t, g, byKey["node:h"].Attrs["fill"])

	r := byKey["ribbon:"+ribbonKey(t, c, ctx)]
	assert.Equal(t, 50.0, r.Attrs["cx"])
	assert.Equal(t, DefaultRibbonOpacity, r.Attrs["opacity"])
}

func ribbonKey(t *testing.T, c *Chord, ctx *chart.Context) string {
	t.Helper()
	_, l, _, err := c.Layout(ctx)
	require.NoError(t, err)
	require.Len(t, l.Ribbons, 1)
	return l.Ribbons[0].Key
}

func TestChordPropagatesHierarchyErrors(t *testing.T) {
	data := []accessor.Datum{
		map[string]any{"id": "a", "parent": "b"},
		map[string]any{"id": "b", "parent": "a"},
	}
	c := &Chord{Hierarchy: hierarchy.Config{Key: accessor.Field("id"), Parent: accessor.Field("parent")}}
	_, _, err := c.Marks(plot(t, data...))
	assert.True(t, errors.Is(err, errors.ErrCodeCyclicHierarchy))
}
