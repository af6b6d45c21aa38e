package hierarchy

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/scale"
)

// NodeLayout is the geometry of one node: an annular sector from angle X0 to
// X1 and radius Y0 to Y1. Angles are radians clockwise from 12 o'clock.
type NodeLayout struct {
	Key    string         `json:"key"`
	Name   string         `json:"name"`
	Depth  int            `json:"depth"`
	Height int            `json:"height"`
	Value  float64        `json:"value"`
	X0     float64        `json:"x0"`
	X1     float64        `json:"x1"`
	Y0     float64        `json:"y0"`
	Y1     float64        `json:"y1"`
	Label  Label          `json:"label"`
	Datum  accessor.Datum `json:"-"`
}

// Center returns the angle in the middle of the node's span.
func (n NodeLayout) Center() float64 { return (n.X0 + n.X1) / 2 }

// Span returns the node's angular extent.
func (n NodeLayout) Span() float64 { return n.X1 - n.X0 }

// Layout is the laid-out tree.
type Layout struct {
	Nodes   []NodeLayout `json:"nodes"`
	Ribbons []Ribbon     `json:"ribbons"`
	Radius  float64      `json:"radius"`
	Inner   float64      `json:"inner_radius"` // Where ribbons attach

	index map[string]int
}

// Node returns the layout of the node with the given key.
func (l *Layout) Node(key string) (NodeLayout, bool) {
	i, ok := l.index[key]
	if !ok {
		return NodeLayout{}, false
	}
	return l.Nodes[i], true
}

// Layout computes node spans, rings, labels and ribbons. links may be nil.
func (t *Tree) Layout(links []accessor.Datum, lc LinkConfig) (*Layout, []errors.Diagnostic, error) {
	cfg := t.cfg
	cfg.setLayoutDefaults()
	if err := cfg.validateLayout(); err != nil {
		return nil, nil, err
	}

	rings := t.Height() + 1
	inner := cfg.Radius - float64(rings)*cfg.RingWidth - float64(rings-1)*cfg.RingGap
	if inner < 0 {
		return nil, nil, errors.New(errors.ErrCodeConfiguration,
			"%d rings of width %v do not fit in radius %v", rings, cfg.RingWidth, cfg.Radius)
	}

	l := &Layout{
		Nodes:  make([]NodeLayout, len(t.Nodes)),
		Radius: cfg.Radius,
		Inner:  inner,
		index:  make(map[string]int, len(t.Nodes)),
	}
	for i := range t.Nodes {
		n := &t.Nodes[i]
		y0 := inner + float64(n.Height)*(cfg.RingWidth+cfg.RingGap)
		l.Nodes[i] = NodeLayout{
			Key:    n.Key,
			Name:   n.Name,
			Depth:  n.Depth,
			Height: n.Height,
			Value:  n.Value,
			Y0:     y0,
			Y1:     y0 + cfg.RingWidth,
			Datum:  n.Datum,
		}
		l.index[n.Key] = i
	}

	p := partitioner{tree: t, layout: l, cfg: cfg}
	p.allocate(t.Roots, scale.AngularRange{Start: cfg.StartAngle, End: cfg.EndAngle, Gap: cfg.Padding})

	for i := range l.Nodes {
		l.Nodes[i].Label = t.label(&t.Nodes[i], l.Nodes[i])
	}

	ribbons, err := t.ribbons(l, links, lc)
	if err != nil {
		return nil, nil, err
	}
	l.Ribbons = ribbons
	return l, p.diags, nil
}

type partitioner struct {
	tree   *Tree
	layout *Layout
	cfg    Config
	diags  []errors.Diagnostic
}

// allocate splits r among siblings in proportion to their values, then
// recurses into each sibling with the inner padding.
func (p *partitioner) allocate(siblings []int, r scale.AngularRange) {
	n := len(siblings)
	if n == 0 {
		return
	}
	siblings = p.order(siblings)

	var total float64
	for _, i := range siblings {
		total += p.tree.Nodes[i].Value
	}
	equal := total <= 0
	if equal {
		p.diags = append(p.diags, errors.Diag(errors.DiagZeroWeight, "hierarchy",
			"%d siblings under %q have zero total weight, using equal shares", n, p.parentKey(siblings[0])))
	}

	gap := r.EffectiveGap(n)
	avail := r.Available(n)
	cur := r.Start
	if r.Closed() {
		cur += gap / 2
	}
	for _, i := range siblings {
		share := 1 / float64(n)
		if !equal {
			share = p.tree.Nodes[i].Value / total
		}
		span := avail * share
		nl := &p.layout.Nodes[i]
		nl.X0, nl.X1 = cur, cur+span
		cur += span + gap

		p.allocate(p.tree.Nodes[i].Children, scale.AngularRange{Start: nl.X0, End: nl.X1, Gap: p.cfg.InnerPadding})
	}
}

func (p *partitioner) parentKey(i int) string {
	if parent := p.tree.Nodes[i].Parent; parent >= 0 {
		return p.tree.Nodes[parent].Key
	}
	return ""
}

// order applies the sort accessor, keeping appearance order for ties.
func (p *partitioner) order(siblings []int) []int {
	if !p.cfg.Sort.IsSet() {
		return siblings
	}
	fn := p.cfg.Sort.Resolve()
	type keyed struct {
		idx  int
		num  float64
		text string
		isN  bool
	}
	ks := make([]keyed, len(siblings))
	for j, i := range siblings {
		v := fn(&p.tree.Nodes[i], j, nil)
		f, ok := accessor.Number(v)
		ks[j] = keyed{idx: i, num: f, text: accessor.Text(v), isN: ok}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.isN && b.isN:
			return cmp.Compare(a.num, b.num)
		case a.isN != b.isN:
			// Numbers sort before text.
			if a.isN {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.text, b.text)
	})
	out := make([]int, len(ks))
	for j, k := range ks {
		out[j] = k.idx
	}
	return out
}

// normalize maps an angle into [0, 2π).
func normalize(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
