package component

import (
	"cmp"
	"math"
	"strconv"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/join"
	"github.com/matzehuels/vizbind/pkg/transition"
)

// Crosshair styling.
const (
	CrosshairLineColor     = "#888"
	CrosshairCircleStroke  = "#fff"
	CrosshairCircleOpacity = 0.75
	CrosshairCircleRadius  = 4
)

// Crosshair marks the datum nearest to Position along X with a vertical
// line and a circle per Y accessor.
type Crosshair struct {
	ID       string
	X        accessor.Accessor
	Y        accessor.Series
	Colors   []string
	Position any // X domain value; nil hides the crosshair
}

func (c *Crosshair) Name() string { return cmp.Or(c.ID, "crosshair") }

func (c *Crosshair) Marks(ctx *chart.Context) ([]chart.Mark, []errors.Diagnostic, error) {
	if ctx.X == nil || ctx.Y == nil {
		return nil, nil, errors.New(errors.ErrCodeConfiguration, "crosshair needs an XY component")
	}
	if c.Position == nil {
		return nil, nil, nil
	}
	target, ok := accessor.Number(c.Position)
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeConfiguration, "crosshair position %v is not numeric", c.Position)
	}
	it, ok := Nearest(ctx.Items, ctx.Data, c.X, target)
	if !ok {
		return nil, nil, nil
	}
	px, ok := ctx.X.Map(c.X.Eval(it.Datum, it.Index, ctx.Data))
	if !ok {
		return nil, nil, nil
	}

	b := ctx.Bounds
	fade := transition.Attrs{"opacity": 0.0}
	marks := []chart.Mark{{
		Key:   "line",
		Shape: "line",
		Attrs: transition.Attrs{
			"x1": px, "y1": b.Y, "x2": px, "y2": b.Y + b.Height,
			"stroke":       CrosshairLineColor,
			"stroke-width": 1.0,
			"opacity":      1.0,
		},
		Enter: fade,
		Exit:  fade,
	}}
	for j, fn := range c.Y.Resolve() {
		py, ok := ctx.Y.Map(fn(it.Datum, it.Index, ctx.Data))
		if !ok {
			continue
		}
		marks = append(marks, chart.Mark{
			Key:   "circle:" + strconv.Itoa(j),
			Shape: "circle",
			Attrs: transition.Attrs{
				"cx":             px,
				"cy":             py,
				"r":              float64(CrosshairCircleRadius),
				"fill":           colorAt(c.Colors, j),
				"stroke":         CrosshairCircleStroke,
				"stroke-opacity": CrosshairCircleOpacity,
				"opacity":        1.0,
			},
			Enter: fade,
			Exit:  fade,
		})
	}
	return marks, nil, nil
}

// Nearest returns the item whose x value is closest to target. Ties go to
// the earlier item; items with a non-numeric x are skipped.
func Nearest(items []join.Item, data []accessor.Datum, x accessor.Accessor, target float64) (join.Item, bool) {
	fn := x.Resolve()
	best, found := join.Item{}, false
	bestDist := math.Inf(1)
	for _, it := range items {
		v, ok := accessor.Number(fn(it.Datum, it.Index, data))
		if !ok {
			continue
		}
		if d := math.Abs(v - target); d < bestDist {
			best, bestDist, found = it, d, true
		}
	}
	return best, found
}
