package component

import (
	"cmp"
	"math"

	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/color"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/transition"
)

// LabelPosition places a plot band label relative to the band.
type LabelPosition string

const (
	TopLeftOutside     LabelPosition = "top-left-outside"
	TopLeftInside      LabelPosition = "top-left-inside"
	TopInside          LabelPosition = "top-inside"
	TopOutside         LabelPosition = "top-outside"
	TopRightInside     LabelPosition = "top-right-inside"
	TopRightOutside    LabelPosition = "top-right-outside"
	RightInside        LabelPosition = "right-inside"
	RightOutside       LabelPosition = "right-outside"
	BottomRightInside  LabelPosition = "bottom-right-inside"
	BottomRightOutside LabelPosition = "bottom-right-outside"
	BottomInside       LabelPosition = "bottom-inside"
	BottomOutside      LabelPosition = "bottom-outside"
	BottomLeftInside   LabelPosition = "bottom-left-inside"
	BottomLeftOutside  LabelPosition = "bottom-left-outside"
	LeftInside         LabelPosition = "left-inside"
	LeftOutside        LabelPosition = "left-outside"
)

// LabelPositions lists every position.
var LabelPositions = []LabelPosition{
	TopLeftOutside, TopLeftInside, TopInside, TopOutside,
	TopRightInside, TopRightOutside, RightInside, RightOutside,
	BottomRightInside, BottomRightOutside, BottomInside, BottomOutside,
	BottomLeftInside, BottomLeftOutside, LeftInside, LeftOutside,
}

// LabelOrientation is the text direction of a plot band label.
type LabelOrientation string

const (
	Horizontal LabelOrientation = "horizontal"
	Vertical   LabelOrientation = "vertical"
)

// Plot band defaults.
const (
	DefaultPlotbandColor = "#FF8400"
	DefaultPlotbandAlpha = 0.2
	DefaultLabelOffset   = 14
	DefaultLabelSize     = 12
	DefaultLabelColor    = "#5b5f6d"
	DefaultLabelPosition = TopRightInside
	DefaultPlotbandAxis  = AxisY
)

// Plotband highlights a domain interval on one axis across the whole plot.
type Plotband struct {
	ID               string
	Axis             string // AxisX or AxisY, default AxisY
	From, To         float64
	Color            string  // Hex color
	ColorAlpha       float64 // Default DefaultPlotbandAlpha
	LabelText        string
	LabelPosition    LabelPosition
	LabelOrientation LabelOrientation
	LabelOffsetX     float64
	LabelOffsetY     float64
	LabelColor       string
	LabelSize        float64
}

func (p *Plotband) Name() string { return cmp.Or(p.ID, "plotband") }

// Fill returns the band color combined with its alpha as a CSS rgba()
// value. A missing or malformed color falls back to the default.
func (p *Plotband) Fill() string {
	alpha := p.ColorAlpha
	if alpha <= 0 {
		alpha = DefaultPlotbandAlpha
	}
	if fill := color.RGBA(p.Color, alpha); fill != "" {
		return fill
	}
	return color.RGBA(DefaultPlotbandColor, alpha)
}

func (p *Plotband) Marks(ctx *chart.Context) ([]chart.Mark, []errors.Diagnostic, error) {
	axis := cmp.Or(p.Axis, DefaultPlotbandAxis)
	b := ctx.Bounds
	var rect chart.Rect
	switch axis {
	case AxisY:
		if ctx.Y == nil {
			return nil, nil, errors.New(errors.ErrCodeConfiguration, "plotband needs an XY component")
		}
		y0, ok0 := ctx.Y.Map(p.From)
		y1, ok1 := ctx.Y.Map(p.To)
		if !ok0 || !ok1 {
			return nil, []errors.Diagnostic{errors.Diag(errors.DiagDegenerateInput, p.Name(),
				"band [%v, %v] is outside the y scale", p.From, p.To)}, nil
		}
		rect = chart.Rect{X: b.X, Y: math.Min(y0, y1), Width: b.Width, Height: math.Abs(y1 - y0)}
	case AxisX:
		if ctx.X == nil {
			return nil, nil, errors.New(errors.ErrCodeConfiguration, "plotband needs an XY component")
		}
		x0, ok0 := ctx.X.Map(p.From)
		x1, ok1 := ctx.X.Map(p.To)
		if !ok0 || !ok1 {
			return nil, []errors.Diagnostic{errors.Diag(errors.DiagDegenerateInput, p.Name(),
				"band [%v, %v] is outside the x scale", p.From, p.To)}, nil
		}
		rect = chart.Rect{X: math.Min(x0, x1), Y: b.Y, Width: math.Abs(x1 - x0), Height: b.Height}
	default:
		return nil, nil, errors.New(errors.ErrCodeConfiguration, "plotband axis must be x or y, got %q", p.Axis)
	}

	fade := transition.Attrs{"opacity": 0.0}
	marks := []chart.Mark{{
		Key:   "band",
		Shape: "rect",
		Attrs: transition.Attrs{
			"x":       rect.X,
			"y":       rect.Y,
			"width":   rect.Width,
			"height":  rect.Height,
			"fill":    p.Fill(),
			"opacity": 1.0,
		},
		Enter: fade,
		Exit:  fade,
	}}
	if p.LabelText != "" {
		label, err := p.label(rect)
		if err != nil {
			return nil, nil, err
		}
		marks = append(marks, chart.Mark{Key: "label", Shape: "text", Attrs: label, Enter: fade, Exit: fade})
	}
	return marks, nil, nil
}

// label places the label text on the band. Inside positions are offset
// into the band; outside positions are offset away from it.
func (p *Plotband) label(r chart.Rect) (transition.Attrs, error) {
	pos := cmp.Or(p.LabelPosition, DefaultLabelPosition)
	ox := cmp.Or(p.LabelOffsetX, DefaultLabelOffset)
	oy := cmp.Or(p.LabelOffsetY, DefaultLabelOffset)

	var (
		x, y             float64
		anchor, baseline string
	)
	left, right := r.X, r.X+r.Width
	top, bottom := r.Y, r.Y+r.Height
	cx, cy := r.Center()

	switch pos {
	case TopLeftOutside:
		x, y, anchor, baseline = left+ox, top-oy, "start", "auto"
	case TopLeftInside:
		x, y, anchor, baseline = left+ox, top+oy, "start", "hanging"
	case TopInside:
		x, y, anchor, baseline = cx, top+oy, "middle", "hanging"
	case TopOutside:
		x, y, anchor, baseline = cx, top-oy, "middle", "auto"
	case TopRightInside:
		x, y, anchor, baseline = right-ox, top+oy, "end", "hanging"
	case TopRightOutside:
		x, y, anchor, baseline = right-ox, top-oy, "end", "auto"
	case RightInside:
		x, y, anchor, baseline = right-ox, cy, "end", "middle"
	case RightOutside:
		x, y, anchor, baseline = right+ox, cy, "start", "middle"
	case BottomRightInside:
		x, y, anchor, baseline = right-ox, bottom-oy, "end", "auto"
	case BottomRightOutside:
		x, y, anchor, baseline = right-ox, bottom+oy, "end", "hanging"
	case BottomInside:
		x, y, anchor, baseline = cx, bottom-oy, "middle", "auto"
	case BottomOutside:
		x, y, anchor, baseline = cx, bottom+oy, "middle", "hanging"
	case BottomLeftInside:
		x, y, anchor, baseline = left+ox, bottom-oy, "start", "auto"
	case BottomLeftOutside:
		x, y, anchor, baseline = left+ox, bottom+oy, "start", "hanging"
	case LeftInside:
		x, y, anchor, baseline = left+ox, cy, "start", "middle"
	case LeftOutside:
		x, y, anchor, baseline = left-ox, cy, "end", "middle"
	default:
		return nil, errors.New(errors.ErrCodeConfiguration, "unknown label position %q", p.LabelPosition)
	}

	rotate := 0.0
	switch cmp.Or(p.LabelOrientation, Horizontal) {
	case Horizontal:
	case Vertical:
		rotate = -90
	default:
		return nil, errors.New(errors.ErrCodeConfiguration, "unknown label orientation %q", p.LabelOrientation)
	}

	return transition.Attrs{
		"x":         x,
		"y":         y,
		"text":      p.LabelText,
		"anchor":    anchor,
		"baseline":  baseline,
		"rotate":    rotate,
		"fill":      cmp.Or(p.LabelColor, DefaultLabelColor),
		"font-size": cmp.Or(p.LabelSize, DefaultLabelSize),
		"opacity":   1.0,
	}, nil
}
