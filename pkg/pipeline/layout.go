package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/cache"
	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/component"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/hierarchy"
	"github.com/matzehuels/vizbind/pkg/render/nodelink"
)

// LayoutDump is the serialized layout of one chord component.
type LayoutDump struct {
	Component string            `json:"component"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Layout    *hierarchy.Layout `json:"layout"`
}

// chordFor decodes opts and returns the chord component named id, or the
// first one when id is empty, with the pass context of the last frame.
func chordFor(opts Options, id string) (*component.Chord, *chart.Context, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	in, err := Decode(opts)
	if err != nil {
		return nil, nil, err
	}
	var chord *component.Chord
	for _, c := range in.Config.Components {
		if ch, ok := c.(*component.Chord); ok && (id == "" || ch.Name() == id) {
			chord = ch
			break
		}
	}
	if chord == nil {
		if id == "" {
			return nil, nil, errors.New(errors.ErrCodeNotFound, "spec has no chord component")
		}
		return nil, nil, errors.New(errors.ErrCodeNotFound, "no chord component %q", id)
	}
	if err := in.Config.Validate(); err != nil {
		return nil, nil, err
	}
	var data []accessor.Datum
	if n := len(in.Frames); n > 0 {
		data = in.Frames[n-1]
	}
	ctx := &chart.Context{
		Data:   data,
		Bounds: in.Config.Bounds(),
		Width:  in.Config.Width,
		Height: in.Config.Height,
	}
	return chord, ctx, nil
}

// Layout returns the chord layout of the last dataset frame as JSON. The
// result is cached under the layout key of the inputs.
func (r *Runner) Layout(ctx context.Context, opts Options, componentID string) ([]byte, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	chord, pctx, err := chordFor(opts, componentID)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.LayoutKey(opts.InputHash(), cache.LayoutKeyOpts{
		Component: chord.Name(),
		Width:     pctx.Width,
		Height:    pctx.Height,
	})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, nil
		}
	}

	_, l, diags, err := chord.Layout(pctx)
	if err != nil {
		return nil, err
	}
	for _, d := range diags {
		r.Logger.Warn(d.Message, "code", d.Code, "source", d.Source)
	}
	data, err := json.MarshalIndent(LayoutDump{
		Component: chord.Name(),
		Width:     pctx.Width,
		Height:    pctx.Height,
		Layout:    l,
	}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	if err := r.Cache.Set(ctx, key, data, cache.LayoutTTL); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	}
	return data, nil
}

// Tree returns the hierarchy of a chord component as Graphviz DOT, or as
// SVG when svg is set.
func (r *Runner) Tree(opts Options, componentID string, nl nodelink.Options, svg bool) ([]byte, error) {
	chord, pctx, err := chordFor(opts, componentID)
	if err != nil {
		return nil, err
	}
	tree, l, _, err := chord.Layout(pctx)
	if err != nil {
		return nil, err
	}
	if nl.Links == nil {
		nl.Links = l.Ribbons
	}
	dot := nodelink.ToDOT(tree, nl)
	if !svg {
		return []byte(dot), nil
	}
	return nodelink.RenderSVG(dot)
}
