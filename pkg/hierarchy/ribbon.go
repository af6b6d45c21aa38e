package hierarchy

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/errors"
)

// RibbonEnd is the arc a ribbon occupies on one leaf.
type RibbonEnd struct {
	Key string  `json:"key"`
	A0  float64 `json:"a0"`
	A1  float64 `json:"a1"`
}

// Ribbon connects two leaves. Both ends sit on the inner radius.
type Ribbon struct {
	Key    string         `json:"key"`
	Source RibbonEnd      `json:"source"`
	Target RibbonEnd      `json:"target"`
	Value  float64        `json:"value"`
	Radius float64        `json:"radius"`
	Datum  accessor.Datum `json:"-"`
}

// Path returns the SVG path of the ribbon, centered on the origin.
func (r Ribbon) Path() string {
	return RibbonPath(r.Source.A0, r.Source.A1, r.Target.A0, r.Target.A1, r.Radius)
}

type ribbonEnd struct {
	ribbon int
	source bool
	other  int
	weight float64
}

func (t *Tree) ribbons(l *Layout, links []accessor.Datum, lc LinkConfig) ([]Ribbon, error) {
	if len(links) == 0 {
		return nil, nil
	}
	srcFn, tgtFn, valFn := lc.Source.Resolve(), lc.Target.Resolve(), lc.Value.Resolve()

	var out []Ribbon
	ends := make(map[int][]ribbonEnd)
	keys := make(map[string]int)
	for i, d := range links {
		src, err := t.leafIndex(srcFn(d, i, links), i, "source")
		if err != nil {
			return nil, err
		}
		tgt, err := t.leafIndex(tgtFn(d, i, links), i, "target")
		if err != nil {
			return nil, err
		}
		w := 1.0
		if lc.Value.IsSet() {
			v, ok := accessor.Number(valFn(d, i, links))
			if !ok || v <= 0 {
				continue
			}
			w = v
		}

		key := t.Nodes[src].Key + "->" + t.Nodes[tgt].Key
		if n := keys[key]; n > 0 {
			keys[key] = n + 1
			key += "#" + strconv.Itoa(n)
		} else {
			keys[key] = 1
		}

		idx := len(out)
		out = append(out, Ribbon{
			Key:    key,
			Source: RibbonEnd{Key: t.Nodes[src].Key},
			Target: RibbonEnd{Key: t.Nodes[tgt].Key},
			Value:  w,
			Radius: l.Inner,
			Datum:  d,
		})
		ends[src] = append(ends[src], ribbonEnd{ribbon: idx, source: true, other: tgt, weight: w})
		ends[tgt] = append(ends[tgt], ribbonEnd{ribbon: idx, source: false, other: src, weight: w})
	}

	for leaf, es := range ends {
		nl := l.Nodes[leaf]
		theta := nl.Center()
		var total float64
		for _, e := range es {
			total += e.weight
		}
		rel := func(e ribbonEnd) float64 { return normalize(l.Nodes[e.other].Center() - theta) }
		slices.SortStableFunc(es, func(a, b ribbonEnd) int {
			return cmp.Compare(rel(b), rel(a))
		})

		cur := nl.X0
		for _, e := range es {
			w := nl.Span() * e.weight / total
			end := &out[e.ribbon].Target
			if e.source {
				end = &out[e.ribbon].Source
			}
			end.A0, end.A1 = cur, cur+w
			cur += w
		}
	}
	return out, nil
}

func (t *Tree) leafIndex(v any, link int, side string) (int, error) {
	key := accessor.Text(v)
	i, ok := t.index[key]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidLink, "link %d %s %q is not a node", link, side, key)
	}
	if !t.Nodes[i].IsLeaf() {
		return 0, errors.New(errors.ErrCodeInvalidLink, "link %d %s %q is not a leaf", link, side, key)
	}
	return i, nil
}
