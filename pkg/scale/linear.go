package scale

import (
	moremath "github.com/aclements/go-moremath/scale"

	"github.com/matzehuels/vizbind/pkg/accessor"
)

// Linear maps a numeric domain onto an output range. Normalization to [0, 1]
// and tick placement use go-moremath's linear scale.
type Linear struct {
	norm moremath.Linear
	rng  [2]float64
}

var _ Scale = (*Linear)(nil)

// NewLinear returns a linear scale from [lo, hi] to rng.
func NewLinear(lo, hi float64, rng [2]float64) *Linear {
	return &Linear{norm: moremath.Linear{Min: lo, Max: hi}, rng: rng}
}

// SetClamp restricts mapped values to the output range.
func (s *Linear) SetClamp(clamp bool) { s.norm.SetClamp(clamp) }

// Map implements Scale.
func (s *Linear) Map(v any) (float64, bool) {
	f, ok := accessor.Number(v)
	if !ok {
		return 0, false
	}
	return s.MapFloat(f), true
}

// MapFloat maps a number without type checks.
func (s *Linear) MapFloat(f float64) float64 {
	t := s.norm.Map(f)
	return s.rng[0] + t*(s.rng[1]-s.rng[0])
}

// Invert maps an output coordinate back into the domain.
func (s *Linear) Invert(px float64) float64 {
	span := s.rng[1] - s.rng[0]
	if span == 0 {
		return s.norm.Unmap(0.5)
	}
	return s.norm.Unmap((px - s.rng[0]) / span)
}

// Bounds returns the numeric domain.
func (s *Linear) Bounds() (lo, hi float64) { return s.norm.Min, s.norm.Max }

// Domain implements Scale.
func (s *Linear) Domain() []any { return []any{s.norm.Min, s.norm.Max} }

// Range implements Scale.
func (s *Linear) Range() [2]float64 { return s.rng }

// Ticks returns at most max "nice" values inside the domain.
func (s *Linear) Ticks(max int) []float64 {
	major, _ := s.norm.Ticks(moremath.TickOptions{Max: max})
	return major
}

func niceExtent(lo, hi float64, ticks int) (float64, float64) {
	l := moremath.Linear{Min: lo, Max: hi}
	l.Nice(moremath.TickOptions{Max: ticks})
	return l.Min, l.Max
}
