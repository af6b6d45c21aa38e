package sink

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/vizbind/pkg/hierarchy"
	"github.com/matzehuels/vizbind/pkg/transition"
)

// RenderSVG draws the retained marks of s as a standalone SVG document.
// Marks with an unknown shape are skipped.
func RenderSVG(s *Scene, opts ...Option) []byte {
	o := newOptions(opts)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(o.width), num(o.height), num(o.width), num(o.height))
	if o.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(o.title))
	}
	if o.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(o.background))
	}
	for _, m := range s.Marks() {
		renderMark(&buf, m)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderMark(buf *bytes.Buffer, m Mark) {
	a := m.Attrs
	id := html.EscapeString(m.Component + "-" + m.Key)
	switch m.Shape {
	case "rect":
		fmt.Fprintf(buf, `  <rect id="%s" x="%s" y="%s" width="%s" height="%s"%s/>`+"\n",
			id, attr(a, "x"), attr(a, "y"), attr(a, "width"), attr(a, "height"), paint(a))
	case "circle":
		fmt.Fprintf(buf, `  <circle id="%s" cx="%s" cy="%s" r="%s"%s/>`+"\n",
			id, attr(a, "cx"), attr(a, "cy"), attr(a, "r"), paint(a))
	case "line":
		fmt.Fprintf(buf, `  <line id="%s" x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n",
			id, attr(a, "x1"), attr(a, "y1"), attr(a, "x2"), attr(a, "y2"), paint(a))
	case "path":
		pts, _ := a.Vector("points")
		d := polyline(pts, a.String("curve"))
		if d == "" {
			return
		}
		fmt.Fprintf(buf, `  <path id="%s" d="%s"%s/>`+"\n", id, d, paint(a))
	case "text":
		renderText(buf, id, a)
	case "tick":
		renderTick(buf, id, a)
	case "arc":
		y0, _ := a.Float("y0")
		y1, _ := a.Float("y1")
		x0, _ := a.Float("x0")
		x1, _ := a.Float("x1")
		d := hierarchy.ArcPath(x0, x1, y0, y1)
		if d == "" {
			return
		}
		fmt.Fprintf(buf, `  <path id="%s" transform="translate(%s %s)" d="%s"%s/>`+"\n",
			id, attr(a, "cx"), attr(a, "cy"), d, paint(a))
	case "ribbon":
		v := func(k string) float64 { x, _ := a.Float(k); return x }
		d := hierarchy.RibbonPath(v("s0"), v("s1"), v("t0"), v("t1"), v("r"))
		fmt.Fprintf(buf, `  <path id="%s" transform="translate(%s %s)" d="%s"%s/>`+"\n",
			id, attr(a, "cx"), attr(a, "cy"), d, paint(a))
	}
}

func renderTick(buf *bytes.Buffer, id string, a transition.Attrs) {
	x, _ := a.Float("x")
	y, _ := a.Float("y")
	dx, _ := a.Float("dx")
	dy, _ := a.Float("dy")
	fmt.Fprintf(buf, `  <g id="%s"%s>`+"\n", id, opacity(a))
	fmt.Fprintf(buf, `    <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s"/>`+"\n",
		num(x), num(y), num(x+dx), num(y+dy), html.EscapeString(cmp.Or(a.String("stroke"), "currentColor")))
	label := transition.Attrs{
		"x":        x + 2*dx,
		"y":        y + 2*dy,
		"text":     a.String("text"),
		"anchor":   a.String("anchor"),
		"baseline": "middle",
	}
	if dy > 0 {
		label["baseline"] = "hanging"
	}
	buf.WriteString("  ")
	renderText(buf, "", label)
	buf.WriteString("  </g>\n")
}

func renderText(buf *bytes.Buffer, id string, a transition.Attrs) {
	x, _ := a.Float("x")
	y, _ := a.Float("y")
	var attrs strings.Builder
	if id != "" {
		fmt.Fprintf(&attrs, ` id="%s"`, id)
	}
	fmt.Fprintf(&attrs, ` x="%s" y="%s"`, num(x), num(y))
	if anchor := a.String("anchor"); anchor != "" {
		fmt.Fprintf(&attrs, ` text-anchor="%s"`, html.EscapeString(anchor))
	}
	if baseline := a.String("baseline"); baseline != "" {
		fmt.Fprintf(&attrs, ` dominant-baseline="%s"`, html.EscapeString(baseline))
	}
	if size, ok := a.Float("font-size"); ok {
		fmt.Fprintf(&attrs, ` font-size="%s"`, num(size))
	}
	if rot, ok := a.Float("rotate"); ok && rot != 0 {
		fmt.Fprintf(&attrs, ` transform="rotate(%s %s %s)"`, num(rot), num(x), num(y))
	}
	attrs.WriteString(paint(a))
	fmt.Fprintf(buf, "<text%s>%s</text>\n", attrs.String(), html.EscapeString(a.String("text")))
}

// polyline turns alternating x, y coordinates into path data.
func polyline(pts []float64, curve string) string {
	if len(pts) < 2 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "M%s,%s", num(pts[0]), num(pts[1]))
	for i := 2; i+1 < len(pts); i += 2 {
		if curve == "step" {
			mid := (pts[i-2] + pts[i]) / 2
			fmt.Fprintf(&b, "H%sV%s", num(mid), num(pts[i+1]))
		}
		fmt.Fprintf(&b, "L%s,%s", num(pts[i]), num(pts[i+1]))
	}
	return b.String()
}

// paint renders the presentation attributes present in a.
func paint(a transition.Attrs) string {
	var b strings.Builder
	for _, k := range []string{"fill", "stroke"} {
		if v := a.String(k); v != "" {
			fmt.Fprintf(&b, ` %s="%s"`, k, html.EscapeString(v))
		}
	}
	for _, k := range []string{"stroke-width", "stroke-opacity"} {
		if v, ok := a.Float(k); ok {
			fmt.Fprintf(&b, ` %s="%s"`, k, num(v))
		}
	}
	b.WriteString(opacity(a))
	return b.String()
}

func opacity(a transition.Attrs) string {
	if v, ok := a.Float("opacity"); ok && v < 1 {
		return fmt.Sprintf(` opacity="%s"`, num(math.Max(0, v)))
	}
	return ""
}

func attr(a transition.Attrs, k string) string {
	v, _ := a.Float(k)
	return num(v)
}

// num formats v with at most three decimals and no negative zero.
func num(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
