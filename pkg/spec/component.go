package spec

import (
	"cmp"
	"math"
	"strings"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/chart"
	"github.com/matzehuels/vizbind/pkg/component"
	"github.com/matzehuels/vizbind/pkg/dataset"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/hierarchy"
)

// Component types.
const (
	TypeLine      = "line"
	TypeScatter   = "scatter"
	TypeAxis      = "axis"
	TypePlotband  = "plotband"
	TypeCrosshair = "crosshair"
	TypeChord     = "chord"
)

// Component is one decoded component. Only the fields of its type are
// read.
type Component struct {
	Type string `toml:"type" yaml:"type"`
	ID   string `toml:"id" yaml:"id"`

	// line, scatter, crosshair
	X           any      `toml:"x" yaml:"x"`
	Y           any      `toml:"y" yaml:"y"`
	Size        any      `toml:"size" yaml:"size"`
	Color       any      `toml:"color" yaml:"color"`
	Colors      []string `toml:"colors" yaml:"colors"`
	Curve       string   `toml:"curve" yaml:"curve"`
	StrokeWidth float64  `toml:"stroke_width" yaml:"stroke_width"`
	Position    any      `toml:"position" yaml:"position"`

	// axis, plotband
	Axis     string `toml:"axis" yaml:"axis"`
	NumTicks int    `toml:"ticks" yaml:"ticks"`
	Label    string `toml:"label" yaml:"label"`

	// plotband
	From             float64 `toml:"from" yaml:"from"`
	To               float64 `toml:"to" yaml:"to"`
	Alpha            float64 `toml:"alpha" yaml:"alpha"`
	LabelPosition    string  `toml:"label_position" yaml:"label_position"`
	LabelOrientation string  `toml:"label_orientation" yaml:"label_orientation"`
	LabelOffsetX     float64 `toml:"label_offset_x" yaml:"label_offset_x"`
	LabelOffsetY     float64 `toml:"label_offset_y" yaml:"label_offset_y"`
	LabelColor       string  `toml:"label_color" yaml:"label_color"`
	LabelSize        float64 `toml:"label_size" yaml:"label_size"`

	// chord
	Hierarchy *Hierarchy       `toml:"hierarchy" yaml:"hierarchy"`
	Links     []map[string]any `toml:"links" yaml:"links"`
	LinksFile string           `toml:"links_file" yaml:"links_file"`
	Source    string           `toml:"source" yaml:"source"`
	Target    string           `toml:"target" yaml:"target"`
	Weight    any              `toml:"weight" yaml:"weight"`
}

// Hierarchy configures the tree of a chord component. Angles are in
// degrees.
type Hierarchy struct {
	Key          string   `toml:"key" yaml:"key"`
	Value        any      `toml:"value" yaml:"value"`
	Parent       string   `toml:"parent" yaml:"parent"`
	Ancestors    string   `toml:"ancestors" yaml:"ancestors"`
	Levels       []string `toml:"levels" yaml:"levels"`
	Sort         string   `toml:"sort" yaml:"sort"` // "value", "-value" or "name"
	Alignment    string   `toml:"alignment" yaml:"alignment"`
	StartAngle   float64  `toml:"start_angle" yaml:"start_angle"`
	EndAngle     float64  `toml:"end_angle" yaml:"end_angle"`
	Padding      float64  `toml:"padding" yaml:"padding"`
	InnerPadding float64  `toml:"inner_padding" yaml:"inner_padding"`
	Radius       float64  `toml:"radius" yaml:"radius"`
	RingWidth    float64  `toml:"ring_width" yaml:"ring_width"`
	RingGap      float64  `toml:"ring_gap" yaml:"ring_gap"`
}

// Build creates the chart component.
func (c Component) Build() (chart.Component, error) {
	switch strings.ToLower(c.Type) {
	case TypeLine:
		return &component.Line{
			ID:          c.ID,
			X:           Channel(c.X),
			Y:           Channels(c.Y),
			Colors:      c.Colors,
			Curve:       c.Curve,
			StrokeWidth: c.StrokeWidth,
		}, nil
	case TypeScatter:
		return &component.Scatter{
			ID:    c.ID,
			X:     Channel(c.X),
			Y:     Channels(c.Y),
			Size:  Channel(c.Size),
			Color: Channel(c.Color),
		}, nil
	case TypeAxis:
		return &component.Axis{ID: c.ID, Type: c.Axis, NumTicks: c.NumTicks, Label: c.Label}, nil
	case TypePlotband:
		color, _ := c.Color.(string)
		return &component.Plotband{
			ID:               c.ID,
			Axis:             c.Axis,
			From:             c.From,
			To:               c.To,
			Color:            color,
			ColorAlpha:       c.Alpha,
			LabelText:        c.Label,
			LabelPosition:    component.LabelPosition(c.LabelPosition),
			LabelOrientation: component.LabelOrientation(c.LabelOrientation),
			LabelOffsetX:     c.LabelOffsetX,
			LabelOffsetY:     c.LabelOffsetY,
			LabelColor:       c.LabelColor,
			LabelSize:        c.LabelSize,
		}, nil
	case TypeCrosshair:
		return &component.Crosshair{
			ID:       c.ID,
			X:        Channel(c.X),
			Y:        Channels(c.Y),
			Colors:   c.Colors,
			Position: c.Position,
		}, nil
	case TypeChord:
		return c.chord()
	}
	return nil, errors.New(errors.ErrCodeConfiguration, "unknown component type %q", c.Type)
}

func (c Component) chord() (*component.Chord, error) {
	if c.Hierarchy == nil {
		return nil, errors.New(errors.ErrCodeConfiguration, "chord needs a hierarchy")
	}
	h := c.Hierarchy
	cfg := hierarchy.Config{
		Key:          Channel(nonEmpty(h.Key)),
		Value:        Channel(h.Value),
		Parent:       Channel(nonEmpty(h.Parent)),
		Ancestors:    Channel(nonEmpty(h.Ancestors)),
		StartAngle:   radians(h.StartAngle),
		EndAngle:     radians(h.EndAngle),
		Padding:      radians(h.Padding),
		InnerPadding: radians(h.InnerPadding),
		Radius:       h.Radius,
		RingWidth:    h.RingWidth,
		RingGap:      h.RingGap,
	}
	for _, name := range h.Levels {
		cfg.Levels = append(cfg.Levels, hierarchy.Level{Name: name, Accessor: accessor.Field(name)})
	}

	switch h.Sort {
	case "":
	case "value":
		cfg.Sort = accessor.Typed(func(n *hierarchy.Node, _ int) float64 { return n.Value })
	case "-value":
		cfg.Sort = accessor.Typed(func(n *hierarchy.Node, _ int) float64 { return -n.Value })
	case "name":
		cfg.Sort = accessor.Typed(func(n *hierarchy.Node, _ int) string { return n.Name })
	default:
		return nil, errors.New(errors.ErrCodeConfiguration, "unknown hierarchy sort %q", h.Sort)
	}
	switch h.Alignment {
	case "":
	case hierarchy.AlignAlong, hierarchy.AlignPerpendicular:
		cfg.LabelAlignment = accessor.Constant(h.Alignment)
	default:
		return nil, errors.New(errors.ErrCodeConfiguration, "unknown label alignment %q", h.Alignment)
	}

	links := dataset.Records(c.Links...)
	if c.LinksFile != "" {
		more, err := dataset.Load(c.LinksFile)
		if err != nil {
			return nil, err
		}
		links = append(links, more...)
	}

	return &component.Chord{
		ID:        c.ID,
		Hierarchy: cfg,
		Links:     links,
		LinkConfig: hierarchy.LinkConfig{
			Source: accessor.Field(cmp.Or(c.Source, "source")),
			Target: accessor.Field(cmp.Or(c.Target, "target")),
			Value:  Channel(c.Weight),
		},
		NodeColor: Channel(c.Color),
	}, nil
}

// nonEmpty maps the empty string to an absent channel.
func nonEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
