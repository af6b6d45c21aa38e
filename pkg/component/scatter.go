package component

import (
	"cmp"
	"strconv"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/transition"
)

// DefaultPointRadius is the scatter point radius when Size is absent.
const DefaultPointRadius = 5

// Scatter draws a circle per datum and Y accessor.
type Scatter struct {
	ID    string
	X     accessor.Accessor
	Y     accessor.Series
	Size  accessor.Accessor // Radius in pixels
	Color accessor.Accessor
}

var _ chart.XYComponent = (*Scatter)(nil)

func (s *Scatter) Name() string { return cmp.Or(s.ID, "scatter") }

func (s *Scatter) XYChannels() (x, y accessor.Series) {
	return accessor.SeriesOf(s.X), s.Y
}

// Marks keys circles by datum key, suffixed by the series index when there
// is more than one Y accessor. Circles grow from zero radius and shrink
// away on exit.
func (s *Scatter) Marks(ctx *chart.Context) ([]chart.Mark, []errors.Diagnostic, error) {
	xfn := s.X.Resolve()
	var marks []chart.Mark
	for j, fn := range s.Y.Resolve() {
		for _, it := range ctx.Items {
			cx, okx := ctx.X.Map(xfn(it.Datum, it.Index, ctx.Data))
			cy, oky := ctx.Y.Map(fn(it.Datum, it.Index, ctx.Data))
			if !okx || !oky {
				continue
			}
			key := it.Key
			if len(s.Y) > 1 {
				key += ":y" + strconv.Itoa(j)
			}
			marks = append(marks, chart.Mark{
				Key:   key,
				Shape: "circle",
				Attrs: transition.Attrs{
					"cx":      cx,
					"cy":      cy,
					"r":       numberOr(s.Size, it.Datum, it.Index, ctx.Data, DefaultPointRadius),
					"fill":    textOr(s.Color, it.Datum, it.Index, ctx.Data, colorAt(nil, j)),
					"opacity": 1.0,
				},
				Enter: transition.Attrs{"r": 0.0},
				Exit:  transition.Attrs{"r": 0.0, "opacity": 0.0},
			})
		}
	}
	return marks, nil, nil
}
