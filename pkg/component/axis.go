package component

import (
	"cmp"
	"strconv"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/scale"
	"github.com/matzehuels/vizbind/pkg/transition"
)

// Axis orientations.
const (
	AxisX = "x"
	AxisY = "y"
)

// Axis draws the domain line, ticks and an optional label of the shared X
// or Y scale.
type Axis struct {
	ID         string
	Type       string // AxisX or AxisY
	NumTicks   int    // Upper bound on tick count; default 5
	TickFormat func(v float64) string
	TickLength float64
	Label      string
}

func (a *Axis) Name() string { return cmp.Or(a.ID, a.Type+"-axis") }

type tick struct {
	label string
	pos   float64
}

// Marks keys ticks by their formatted value so that ticks shared by two
// domains stay in place while the others fade.
func (a *Axis) Marks(ctx *chart.Context) ([]chart.Mark, []errors.Diagnostic, error) {
	var s scale.Scale
	switch a.Type {
	case AxisX:
		s = ctx.X
	case AxisY:
		s = ctx.Y
	default:
		return nil, nil, errors.New(errors.ErrCodeConfiguration, "axis type must be x or y, got %q", a.Type)
	}
	if s == nil {
		return nil, nil, errors.New(errors.ErrCodeConfiguration, "%s axis needs an XY component", a.Type)
	}

	b := ctx.Bounds
	length := cmp.Or(a.TickLength, 6)
	fade := transition.Attrs{"opacity": 0.0}
	marks := []chart.Mark{{
		Key:   "domain",
		Shape: "line",
		Attrs: a.domainLine(b),
		Enter: fade,
		Exit:  fade,
	}}

	for _, t := range a.ticks(s) {
		attrs := transition.Attrs{"text": t.label, "opacity": 1.0, "stroke": "#5b5f6d"}
		if a.Type == AxisX {
			attrs["x"], attrs["y"] = t.pos, b.Y+b.Height
			attrs["dx"], attrs["dy"] = 0.0, length
			attrs["anchor"] = "middle"
		} else {
			attrs["x"], attrs["y"] = b.X, t.pos
			attrs["dx"], attrs["dy"] = -length, 0.0
			attrs["anchor"] = "end"
		}
		marks = append(marks, chart.Mark{
			Key:   "tick:" + t.label,
			Shape: "tick",
			Attrs: attrs,
			Enter: fade,
			Exit:  fade,
		})
	}

	if a.Label != "" {
		attrs := transition.Attrs{"text": a.Label, "anchor": "middle", "opacity": 1.0}
		if a.Type == AxisX {
			attrs["x"], attrs["y"], attrs["rotate"] = b.X+b.Width/2, b.Y+b.Height+length+24, 0.0
		} else {
			attrs["x"], attrs["y"], attrs["rotate"] = b.X-length-32, b.Y+b.Height/2, -90.0
		}
		marks = append(marks, chart.Mark{Key: "label", Shape: "text", Attrs: attrs, Enter: fade, Exit: fade})
	}
	return marks, nil, nil
}

func (a *Axis) domainLine(b chart.Rect) transition.Attrs {
	attrs := transition.Attrs{"stroke": "#5b5f6d", "opacity": 1.0}
	if a.Type == AxisX {
		attrs["x1"], attrs["y1"] = b.X, b.Y+b.Height
		attrs["x2"], attrs["y2"] = b.X+b.Width, b.Y+b.Height
	} else {
		attrs["x1"], attrs["y1"] = b.X, b.Y
		attrs["x2"], attrs["y2"] = b.X, b.Y+b.Height
	}
	return attrs
}

func (a *Axis) ticks(s scale.Scale) []tick {
	n := cmp.Or(a.NumTicks, 5)
	if band, ok := s.(*scale.Band); ok {
		var out []tick
		for _, v := range band.Domain() {
			pos, _ := band.Center(v)
			out = append(out, tick{label: accessor.Text(v), pos: pos})
		}
		return out
	}

	format := a.TickFormat
	if format == nil {
		format = func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	}
	var out []tick
	for _, v := range s.Ticks(n) {
		if v == 0 {
			v = 0 // drop the sign of -0
		}
		pos, ok := s.Map(v)
		if !ok {
			continue
		}
		out = append(out, tick{label: format(v), pos: pos})
	}
	return out
}
