// Package sink provides chart surfaces: an in-memory [Recorder], a retained
// [Scene] holding the current picture, and exporters that turn a scene into
// SVG or JSON.
//
// A Scene is a [chart.Surface]. Point a chart instance at it, run update
// passes and advance the clock, then export:
//
//	scene := sink.NewScene()
//	in := chart.New(scene, chart.WithScheduler(clock))
//	in.Update(ctx, data, cfg)
//	svg := sink.RenderSVG(scene, sink.WithSize(600, 400))
package sink
