// Package component provides the chart components: lines, scatter points,
// axes, plot bands, a crosshair and chord diagrams.
//
// Components are stateless. They read the pass [chart.Context] and return
// marks with their target attributes and enter and exit states; the chart
// instance does the joining and animation. Line and Scatter are XY
// components and contribute their accessors to the shared X and Y scales,
// the others only read those scales.
package component
