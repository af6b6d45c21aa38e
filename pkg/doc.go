// Package pkg holds the vizbind libraries.
//
// # Overview
//
// vizbind binds keyed datasets to chart components and animates every
// change between successive datasets. The packages stack from pure
// building blocks up to the render pipeline:
//
//  1. [accessor] - channel values from records (field, index, constant, func)
//  2. [scale] - continuous and band scales with nice domains and ticks
//  3. [join] - identity-keyed enter/update/exit partitioning
//  4. [transition] - interpolated, cancellable transitions on a host clock
//  5. [hierarchy] - tree building and the radial chord layout
//  6. [chart] - the render coordinator driving components through passes
//  7. [component] - line, scatter, axis, plotband, crosshair and chord
//  8. [sink] - surfaces that retain and export draw commands (SVG, JSON)
//  9. [pipeline] - spec + dataset frames to cached artifacts
//
// # Data Flow
//
//	chart spec (TOML/YAML)        dataset frames (JSON/YAML)
//	         ↓                               ↓
//	    [spec] package              [dataset] package
//	         ↘                               ↙
//	          [chart] Instance.Update per frame
//	                     ↓
//	      [join] → [scale] → [component] marks
//	                     ↓
//	      [transition] engine on a [transition.Clock]
//	                     ↓
//	       [sink] Scene → SVG / JSON / commands
//
// # Quick Start
//
//	scene := sink.NewScene()
//	clock := transition.NewClock(time.Now())
//	inst := chart.New(scene, chart.WithScheduler(clock))
//	defer inst.Dispose()
//
//	cfg := chart.Config{
//	    Key:        accessor.Field("id"),
//	    Components: []chart.Component{&component.Scatter{X: accessor.Field("x"), Y: accessor.SeriesOf(accessor.Field("y"))}},
//	}
//	if _, err := inst.Update(ctx, data, cfg); err != nil {
//	    return err
//	}
//	clock.Drain(16*time.Millisecond, 1000)
//	svg := sink.RenderSVG(scene)
//
// Errors carry a code from [errors]; configuration errors are reported
// synchronously and leave the previous picture untouched. Non-fatal
// findings come back as diagnostics on the update result.
//
// [accessor]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/accessor
// [scale]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/scale
// [join]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/join
// [transition]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/transition
// [hierarchy]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/hierarchy
// [chart]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/chart
// [component]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/component
// [sink]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/errors
//
// [transition.Clock]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/transition#Clock
// [spec]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/spec
// [dataset]: https://pkg.go.dev/github.com/matzehuels/vizbind/pkg/dataset
package pkg
