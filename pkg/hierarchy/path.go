package hierarchy

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxSpan keeps a full-circle arc from collapsing to a point.
const maxSpan = 2*math.Pi - 1e-4

// Point converts a polar position to cartesian coordinates, with angle 0 at
// 12 o'clock and angles growing clockwise.
func Point(angle, radius float64) (x, y float64) {
	return radius * math.Sin(angle), -radius * math.Cos(angle)
}

// ArcPath returns the SVG path of the annular sector between angles a0, a1
// and radii r0, r1. An inner radius of zero draws a pie slice.
func ArcPath(a0, a1, r0, r1 float64) string {
	span := a1 - a0
	if span <= 0 || r1 <= 0 {
		return ""
	}
	if span > maxSpan {
		a1 = a0 + maxSpan
		span = maxSpan
	}
	large := 0
	if span > math.Pi {
		large = 1
	}

	var b strings.Builder
	x, y := Point(a0, r1)
	fmt.Fprintf(&b, "M%s,%s", num(x), num(y))
	x, y = Point(a1, r1)
	fmt.Fprintf(&b, "A%s,%s,0,%d,1,%s,%s", num(r1), num(r1), large, num(x), num(y))
	if r0 > 0 {
		x, y = Point(a1, r0)
		fmt.Fprintf(&b, "L%s,%s", num(x), num(y))
		x, y = Point(a0, r0)
		fmt.Fprintf(&b, "A%s,%s,0,%d,0,%s,%s", num(r0), num(r0), large, num(x), num(y))
	} else {
		b.WriteString("L0,0")
	}
	b.WriteString("Z")
	return b.String()
}

// RibbonPath returns the SVG path of a ribbon from the source arc [s0, s1]
// to the target arc [t0, t1] on a circle of radius r. The two arcs are
// joined by quadratic curves through the center.
func RibbonPath(s0, s1, t0, t1, r float64) string {
	var b strings.Builder
	x, y := Point(s0, r)
	fmt.Fprintf(&b, "M%s,%s", num(x), num(y))
	arcTo(&b, s0, s1, r)
	x, y = Point(t0, r)
	fmt.Fprintf(&b, "Q0,0,%s,%s", num(x), num(y))
	arcTo(&b, t0, t1, r)
	x, y = Point(s0, r)
	fmt.Fprintf(&b, "Q0,0,%s,%sZ", num(x), num(y))
	return b.String()
}

func arcTo(b *strings.Builder, a0, a1, r float64) {
	span := a1 - a0
	if span <= 0 {
		return
	}
	large := 0
	if span > math.Pi {
		large = 1
	}
	x, y := Point(a1, r)
	fmt.Fprintf(b, "A%s,%s,0,%d,1,%s,%s", num(r), num(r), large, num(x), num(y))
}

// num formats a coordinate with three decimals so that identical geometry
// always produces identical bytes.
func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
