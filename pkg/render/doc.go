// Package render groups renderers that sit outside the chart surface
// model.
//
// The chart engine draws through [sink] surfaces. The [nodelink]
// subpackage instead renders a hierarchy directly as a Graphviz node-link
// diagram, which is handy for checking how records were grouped before
// laying them out as a chord diagram:
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [sink]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/sink
// [nodelink]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/render/nodelink
package render
