package chart

import (
	"strings"
	"time"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/errors"
	"github.com/matzehuels/vizbind/pkg/join"
	"github.com/matzehuels/vizbind/pkg/scale"
	"github.com/matzehuels/vizbind/pkg/transition"
)

// Default dimensions of a chart.
const (
	DefaultWidth  = 600
	DefaultHeight = 400
)

// Margin is the space between the chart edge and the plot area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargin leaves room for axes.
var DefaultMargin = Margin{Top: 20, Right: 20, Bottom: 40, Left: 50}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Center returns the middle of the rectangle.
func (r Rect) Center() (x, y float64) { return r.X + r.Width/2, r.Y + r.Height/2 }

// ScaleOptions overrides the inferred scale of one XY channel.
type ScaleOptions struct {
	Type         scale.Type
	Domain       []any
	Nice         bool
	Clamp        bool
	PaddingInner float64
	PaddingOuter float64
}

// Config is the input of one update pass besides the dataset.
type Config struct {
	Key      accessor.Accessor // Datum identity; positional when absent
	Duration time.Duration     // 0 applies the update immediately

	Width, Height float64
	Margin        *Margin // nil means DefaultMargin

	X, Y ScaleOptions

	// Enter and Exit are defaults merged under every mark's own enter and
	// exit attributes.
	Enter transition.Attrs
	Exit  transition.Attrs

	Components []Component
}

// SetDefaults fills zero dimensions.
func (c *Config) SetDefaults() {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Margin == nil {
		m := DefaultMargin
		c.Margin = &m
	}
}

// Validate reports configuration errors that do not depend on the data.
func (c *Config) Validate() error {
	if err := errors.ValidateDuration(c.Duration); err != nil {
		return err
	}
	if len(c.Components) == 0 {
		return errors.New(errors.ErrCodeConfiguration, "chart has no components")
	}
	seen := make(map[string]bool, len(c.Components))
	for _, comp := range c.Components {
		name := comp.Name()
		if name == "" || strings.Contains(name, keySep) {
			return errors.New(errors.ErrCodeConfiguration, "invalid component name %q", name)
		}
		if seen[name] {
			return errors.New(errors.ErrCodeConfiguration, "duplicate component name %q", name)
		}
		seen[name] = true
	}
	b := c.Bounds()
	if b.Width <= 0 || b.Height <= 0 {
		return errors.New(errors.ErrCodeConfiguration,
			"margins leave no plot area in a %vx%v chart", c.Width, c.Height)
	}
	return nil
}

// Bounds returns the plot area.
func (c *Config) Bounds() Rect {
	m := DefaultMargin
	if c.Margin != nil {
		m = *c.Margin
	}
	return Rect{
		X:      m.Left,
		Y:      m.Top,
		Width:  c.Width - m.Left - m.Right,
		Height: c.Height - m.Top - m.Bottom,
	}
}

// Mark is one visual element produced by a component. Keys are unique
// within a component.
type Mark struct {
	Key   string
	Shape string
	Attrs transition.Attrs

	// Enter is merged over Attrs to form the state an entering mark starts
	// from. Exit is the state an exiting mark animates to.
	Enter transition.Attrs
	Exit  transition.Attrs
}

// Context is what components see during a pass.
type Context struct {
	Data   []accessor.Datum
	Items  []join.Item // Keyed datums, duplicates removed
	X, Y   scale.Scale // Shared scales; nil without XY components
	Bounds Rect
	Width  float64
	Height float64
}

// Component turns the pass context into marks.
type Component interface {
	Name() string
	Marks(ctx *Context) ([]Mark, []errors.Diagnostic, error)
}

// XYComponent contributes accessors to the shared X and Y scales.
type XYComponent interface {
	Component
	XYChannels() (x, y accessor.Series)
}
