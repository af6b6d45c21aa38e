package component

import (
	"cmp"
	"strconv"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/transition"
)

// Curve types for Line.
const (
	CurveLinear = "linear"
	CurveStep   = "step"
)

// Line draws one path per Y accessor.
type Line struct {
	ID          string
	X           accessor.Accessor
	Y           accessor.Series
	Colors      []string
	Curve       string
	StrokeWidth float64
}

var _ chart.XYComponent = (*Line)(nil)

func (l *Line) Name() string { return cmp.Or(l.ID, "line") }

func (l *Line) XYChannels() (x, y accessor.Series) {
	return accessor.SeriesOf(l.X), l.Y
}

// Marks returns a path per Y accessor. The "points" attribute holds
// alternating x and y coordinates; datums with a non-numeric value are
// skipped.
func (l *Line) Marks(ctx *chart.Context) ([]chart.Mark, []errors.Diagnostic, error) {
	xfn := l.X.Resolve()
	width := cmp.Or(l.StrokeWidth, 2)
	curve := cmp.Or(l.Curve, CurveLinear)
	if curve != CurveLinear && curve != CurveStep {
		return nil, nil, errors.New(errors.ErrCodeConfiguration, "unknown curve %q", l.Curve)
	}

	var diags []errors.Diagnostic
	marks := make([]chart.Mark, 0, len(l.Y))
	for j, fn := range l.Y.Resolve() {
		pts := make([]float64, 0, 2*len(ctx.Items))
		for _, it := range ctx.Items {
			px, okx := ctx.X.Map(xfn(it.Datum, it.Index, ctx.Data))
			py, oky := ctx.Y.Map(fn(it.Datum, it.Index, ctx.Data))
			if okx && oky {
				pts = append(pts, px, py)
			}
		}
		if len(pts) == 0 && len(ctx.Items) > 0 {
			diags = append(diags, errors.Diag(errors.DiagDegenerateInput, l.Name(),
				"series %d has no numeric points", j))
		}
		marks = append(marks, chart.Mark{
			Key:   "y" + strconv.Itoa(j),
			Shape: "path",
			Attrs: transition.Attrs{
				"points":       pts,
				"curve":        curve,
				"stroke":       colorAt(l.Colors, j),
				"stroke-width": width,
				"fill":         "none",
				"opacity":      1.0,
			},
			Enter: transition.Attrs{"opacity": 0.0},
			Exit:  transition.Attrs{"opacity": 0.0},
		})
	}
	return marks, diags, nil
}
