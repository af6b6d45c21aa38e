package scale

import "math"

// AngularRange is an angular extent in radians with padding between
// adjacent segments.
type AngularRange struct {
	Start, End float64
	Gap        float64
}

// FullCircle is [0, 2π) without gaps.
var FullCircle = AngularRange{Start: 0, End: 2 * math.Pi}

// Span returns the total angle covered.
func (r AngularRange) Span() float64 { return math.Abs(r.End - r.Start) }

// Closed reports whether the range wraps the whole circle, in which case the
// last segment is followed by a gap before the first.
func (r AngularRange) Closed() bool {
	return r.Span() >= 2*math.Pi-1e-9
}

// Gaps returns how many gaps separate n segments.
func (r AngularRange) Gaps(n int) int {
	switch {
	case n <= 0:
		return 0
	case r.Closed():
		return n
	default:
		return n - 1
	}
}

// Available returns the angle left for n segments after gaps. The gap is
// shrunk when the segments would otherwise get nothing.
func (r AngularRange) Available(n int) float64 {
	return r.Span() - r.EffectiveGap(n)*float64(r.Gaps(n))
}

// EffectiveGap returns the gap used for n segments, capped so that gaps take
// at most half of the span.
func (r AngularRange) EffectiveGap(n int) float64 {
	g := r.Gaps(n)
	if g == 0 || r.Gap <= 0 {
		return 0
	}
	return math.Min(r.Gap, r.Span()/(2*float64(g)))
}

// AngularScale is a linear scale onto an angular range.
type AngularScale struct {
	*Linear
	Angular AngularRange
}

var _ Scale = (*AngularScale)(nil)
