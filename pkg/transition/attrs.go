package transition

import (
	"maps"
	"slices"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/color"
)

// Attrs is the set of visual attributes of one mark.
//
// Numbers interpolate linearly, []float64 vectors element-wise when their
// lengths match, and colors ("#rrggbb" or "rgba(...)") per channel. Any
// other value snaps to its target when the transition starts.
type Attrs map[string]any

// Clone returns a copy of a. Vectors are copied too.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		if vec, ok := v.([]float64); ok {
			v = slices.Clone(vec)
		}
		out[k] = v
	}
	return out
}

// Merge returns a copy of a overlaid with b.
func (a Attrs) Merge(b Attrs) Attrs {
	out := a.Clone()
	if out == nil {
		out = make(Attrs, len(b))
	}
	maps.Copy(out, b.Clone())
	return out
}

// Float returns the numeric attribute k.
func (a Attrs) Float(k string) (float64, bool) {
	return accessor.Number(a[k])
}

// Vector returns the vector attribute k.
func (a Attrs) Vector(k string) ([]float64, bool) {
	v, ok := a[k].([]float64)
	return v, ok
}

// String returns the attribute k formatted as text.
func (a Attrs) String(k string) string {
	return accessor.Text(a[k])
}

// Keys returns the attribute names in sorted order.
func (a Attrs) Keys() []string {
	return slices.Sorted(maps.Keys(a))
}

type interpolator func(t float64) any

// Interpolate returns a function sampling the attribute set at progress t.
// Attributes missing from from start at their target; attributes missing
// from to keep their current value.
func Interpolate(from, to Attrs) func(t float64) Attrs {
	fns := make(map[string]interpolator, len(to)+len(from))
	for k, tv := range to {
		fv, ok := from[k]
		if !ok {
			fv = tv
		}
		fns[k] = interpolateValue(fv, tv)
	}
	for k, fv := range from {
		if _, ok := to[k]; !ok {
			v := fv
			fns[k] = func(float64) any { return v }
		}
	}
	return func(t float64) Attrs {
		if t >= 1 {
			return to.Merge(keepOnly(from, to))
		}
		out := make(Attrs, len(fns))
		for k, fn := range fns {
			out[k] = fn(t)
		}
		return out
	}
}

func keepOnly(from, to Attrs) Attrs {
	out := make(Attrs)
	for k, v := range from {
		if _, ok := to[k]; !ok {
			out[k] = v
		}
	}
	return out
}

func interpolateValue(from, to any) interpolator {
	if a, ok := accessor.Number(from); ok {
		if b, ok := accessor.Number(to); ok {
			return func(t float64) any { return lerp(a, b, t) }
		}
	}
	if a, ok := from.([]float64); ok {
		if b, ok := to.([]float64); ok && len(a) == len(b) {
			a, b = slices.Clone(a), slices.Clone(b)
			return func(t float64) any {
				out := make([]float64, len(a))
				for i := range a {
					out[i] = lerp(a[i], b[i], t)
				}
				return out
			}
		}
	}
	if fs, ok := from.(string); ok {
		if ts, ok := to.(string); ok {
			if a, ok := color.Parse(fs); ok {
				if b, ok := color.Parse(ts); ok {
					return func(t float64) any {
						if t <= 0 {
							return fs
						}
						return a.Blend(b, t).String()
					}
				}
			}
		}
	}
	return func(float64) any { return to }
}

func lerp(a, b, t float64) float64 {
	if t <= 0 {
		return a
	}
	return a + (b-a)*t
}
