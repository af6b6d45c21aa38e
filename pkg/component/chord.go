package component

import (
	"cmp"
	"math"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/hierarchy"
	"github.com/matzehuels/vizbind/pkg/transition"
)

// Chord styling.
const (
	DefaultRibbonOpacity = 0.5
	DefaultChordLabel    = 10
	chordMargin          = 0.9
)

// Chord draws a hierarchy as nested arcs with ribbons between related
// leaves.
type Chord struct {
	ID         string
	Hierarchy  hierarchy.Config
	Links      []accessor.Datum
	LinkConfig hierarchy.LinkConfig

	// NodeColor and NodeLabel are evaluated on hierarchy.NodeLayout values.
	NodeColor accessor.Accessor
	NodeLabel accessor.Accessor
}

func (c *Chord) Name() string { return cmp.Or(c.ID, "chord") }

// Layout builds and lays out the hierarchy for the pass.
func (c *Chord) Layout(ctx *chart.Context) (*hierarchy.Tree, *hierarchy.Layout, []errors.Diagnostic, error) {
	cfg := c.Hierarchy
	if cfg.Radius <= 0 {
		cfg.Radius = math.Min(ctx.Bounds.Width, ctx.Bounds.Height) / 2 * chordMargin
	}
	tree, diags, err := hierarchy.Build(ctx.Data, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	l, ldiags, err := tree.Layout(c.Links, c.LinkConfig)
	if err != nil {
		return nil, nil, nil, err
	}
	return tree, l, append(diags, ldiags...), nil
}

// Marks returns an arc and a label per node and a path per ribbon. Arcs
// enter by growing from their start angle; ribbons and labels fade.
func (c *Chord) Marks(ctx *chart.Context) ([]chart.Mark, []errors.Diagnostic, error) {
	tree, l, diags, err := c.Layout(ctx)
	if err != nil {
		return nil, nil, err
	}
	cx, cy := ctx.Bounds.Center()
	fade := transition.Attrs{"opacity": 0.0}

	colors := make(map[string]string, len(l.Nodes))
	for i, r := range tree.Roots {
		colors[tree.Nodes[r].Key] = Palette[i%len(Palette)]
	}
	nodeColor := func(n hierarchy.NodeLayout, i int) string {
		root := n.Key
		if tn, ok := tree.Node(n.Key); ok && len(tn.Ancestors) > 0 {
			root = tn.Ancestors[0]
		}
		return textOr(c.NodeColor, n, i, nil, colors[root])
	}

	marks := make([]chart.Mark, 0, 2*len(l.Nodes)+len(l.Ribbons))
	for i, n := range l.Nodes {
		fill := nodeColor(n, i)
		colors[n.Key] = fill
		marks = append(marks, chart.Mark{
			Key:   "node:" + n.Key,
			Shape: "arc",
			Attrs: transition.Attrs{
				"cx": cx, "cy": cy,
				"x0": n.X0, "x1": n.X1,
				"y0": n.Y0, "y1": n.Y1,
				"fill":    fill,
				"opacity": 1.0,
			},
			Enter: transition.Attrs{"x1": n.X0},
			Exit:  fade,
		})
	}
	for i, n := range l.Nodes {
		marks = append(marks, chart.Mark{
			Key:   "label:" + n.Key,
			Shape: "text",
			Attrs: transition.Attrs{
				"x":         cx + n.Label.X,
				"y":         cy + n.Label.Y,
				"text":      textOr(c.NodeLabel, n, i, nil, n.Label.Text),
				"rotate":    n.Label.Rotation,
				"anchor":    n.Label.Anchor,
				"baseline":  "middle",
				"alignment": n.Label.Alignment,
				"font-size": float64(DefaultChordLabel),
				"opacity":   1.0,
			},
			Enter: fade,
			Exit:  fade,
		})
	}
	for _, r := range l.Ribbons {
		marks = append(marks, chart.Mark{
			Key:   "ribbon:" + r.Key,
			Shape: "ribbon",
			Attrs: transition.Attrs{
				"cx": cx, "cy": cy,
				"s0": r.Source.A0, "s1": r.Source.A1,
				"t0": r.Target.A0, "t1": r.Target.A1,
				"r":       r.Radius,
				"fill":    colors[r.Source.Key],
				"opacity": DefaultRibbonOpacity,
			},
			Enter: fade,
			Exit:  fade,
		})
	}
	return marks, diags, nil
}
