package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/vizbind/pkg/hierarchy"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds depth, height and value to node labels.
	Detailed bool
	// LeftToRight lays the tree out horizontally.
	LeftToRight bool
	// Links are drawn as dotted edges between node keys.
	Links []hierarchy.Ribbon
}

// ToDOT converts a hierarchy to Graphviz DOT source.
func ToDOT(t *hierarchy.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.LeftToRight {
		buf.WriteString("  rankdir=LR;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n\n")

	t.Walk(func(n *hierarchy.Node) bool {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Key, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
		return true
	})

	buf.WriteString("\n")
	t.Walk(func(n *hierarchy.Node) bool {
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.Key, t.Nodes[c].Key)
		}
		return true
	})

	for _, l := range opts.Links {
		fmt.Fprintf(&buf, "  %q -> %q [style=dotted, constraint=false, dir=none, penwidth=%s];\n",
			l.Source.Key, l.Target.Key, strconv.FormatFloat(1+l.Value, 'f', -1, 64))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *hierarchy.Node, detailed bool) []string {
	label := n.Name
	if detailed {
		label = fmt.Sprintf("%s\ndepth: %d\nheight: %d\nvalue: %s",
			n.Name, n.Depth, n.Height, strconv.FormatFloat(n.Value, 'g', -1, 64))
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Synthetic {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG lays out DOT source with Graphviz and returns the SVG.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg element with one
// sized in user units so the diagram scales like the chart exports.
func normalizeViewBox(svg []byte) []byte {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(m[3]), 64)
	h, _ := strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
