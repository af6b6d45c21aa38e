package hierarchy

import (
	"math"

	"github.com/matzehuels/vizbind/pkg/accessor"
)

// Label is the placement of a node label. Rotation is in degrees and is
// flipped by 180 where the text would otherwise read upside down.
type Label struct {
	Text      string  `json:"text"`
	Alignment string  `json:"alignment"`
	Angle     float64 `json:"angle"`
	Radius    float64 `json:"radius"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Rotation  float64 `json:"rotation"`
	Anchor    string  `json:"anchor"`
}

func (t *Tree) label(n *Node, nl NodeLayout) Label {
	align := AlignAlong
	if n.Height > 0 {
		align = AlignPerpendicular
	}
	if t.cfg.LabelAlignment.IsSet() {
		switch v := accessor.Text(t.cfg.LabelAlignment.Eval(n, n.Index, nil)); v {
		case AlignAlong, AlignPerpendicular:
			align = v
		}
	}

	angle := nl.Center()
	radius := (nl.Y0 + nl.Y1) / 2
	x, y := Point(angle, radius)
	deg := angle * 180 / math.Pi

	var rot float64
	switch align {
	case AlignPerpendicular:
		rot = deg - 90
		if math.Sin(angle) < 0 {
			rot += 180
		}
	default:
		rot = deg
		if math.Cos(angle) < 0 {
			rot += 180
		}
	}

	return Label{
		Text:      n.Name,
		Alignment: align,
		Angle:     angle,
		Radius:    radius,
		X:         x,
		Y:         y,
		Rotation:  normalizeDegrees(rot),
		Anchor:    "middle",
	}
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}
