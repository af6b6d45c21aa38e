// Package nodelink renders hierarchies as node-link diagrams.
//
// [ToDOT] writes a hierarchy as Graphviz DOT source with one box per node
// and an arrow from every parent to its children. Synthetic group nodes
// created from level accessors are drawn dashed. Relationship links can be
// added as dotted, unconstrained edges. [RenderSVG] lays the DOT out
// in-process with [github.com/goccy/go-graphviz].
package nodelink
