package hierarchy

import (
	"math"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/errors"
)

// Label alignments.
const (
	AlignAlong         = "along"
	AlignPerpendicular = "perpendicular"
)

// Defaults for ring geometry, relative to the radius.
const (
	DefaultRingWidthRatio = 0.05
	DefaultRingGapRatio   = 0.01
)

// Level is a named grouping depth.
type Level struct {
	Name     string
	Accessor accessor.Accessor
}

// Config describes how records form a tree and how the tree is laid out.
//
// Key, Value, Ancestors, Parent and the level accessors are evaluated on the
// records. Sort and LabelAlignment are evaluated on *Node values, so they can
// inspect depth, height and the originating record.
type Config struct {
	Key       accessor.Accessor // Record identity; defaults to the index
	Value     accessor.Accessor // Leaf weight; leaf count when absent
	Ancestors accessor.Accessor // Root-first ancestor keys
	Parent    accessor.Accessor // Parent key
	Levels    []Level

	Sort           accessor.Accessor // Sibling order; appearance order when absent
	LabelAlignment accessor.Accessor // Overrides the along/perpendicular default

	StartAngle, EndAngle float64 // Radians; EndAngle 0 means StartAngle+2π
	Padding              float64 // Gap between roots, radians
	InnerPadding         float64 // Gap between siblings inside a group, radians

	Radius    float64 // Outer radius of the outermost ring; default 1
	RingWidth float64 // Default Radius*DefaultRingWidthRatio
	RingGap   float64 // Default Radius*DefaultRingGapRatio
}

func (c *Config) setLayoutDefaults() {
	if c.EndAngle == 0 && c.StartAngle == 0 {
		c.EndAngle = 2 * math.Pi
	} else if c.EndAngle == 0 {
		c.EndAngle = c.StartAngle + 2*math.Pi
	}
	if c.Radius <= 0 {
		c.Radius = 1
	}
	if c.RingWidth <= 0 {
		c.RingWidth = c.Radius * DefaultRingWidthRatio
	}
	if c.RingGap <= 0 {
		c.RingGap = c.Radius * DefaultRingGapRatio
	}
}

func (c *Config) validateLayout() error {
	for _, v := range []float64{c.StartAngle, c.EndAngle, c.Padding, c.InnerPadding, c.Radius, c.RingWidth, c.RingGap} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeConfiguration, "layout parameters must be finite")
		}
	}
	if c.Padding < 0 || c.InnerPadding < 0 {
		return errors.New(errors.ErrCodeConfiguration, "padding must be non-negative")
	}
	if c.EndAngle <= c.StartAngle {
		return errors.New(errors.ErrCodeConfiguration,
			"end angle %v must be greater than start angle %v", c.EndAngle, c.StartAngle)
	}
	return nil
}

// LinkConfig describes relationships between leaves.
type LinkConfig struct {
	Source accessor.Accessor
	Target accessor.Accessor
	Value  accessor.Accessor // Relationship weight; 1 when absent
}
