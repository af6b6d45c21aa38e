// Package scale builds the domain-to-range mappings shared by chart
// components.
//
// A scale is built once per update pass from a [Config] and the full dataset.
// Domains are inferred over every datum and every accessor of the bound
// series, so several y accessors (y, y1, y2) share one axis:
//
//	s, diags, err := scale.Build(scale.Config{
//	    Type:   scale.Continuous,
//	    Series: accessor.SeriesOf(accessor.Field("y"), accessor.Field("y1")),
//	    Range:  [2]float64{300, 0},
//	}, data)
//
// # Scale Types
//
//   - [Continuous]: a [Linear] map from [min, max] to the output range. The
//     normalization and tick placement are delegated to go-moremath.
//   - [Categorical]: a [Band] scale over distinct values in first-appearance
//     order, with inner and outer padding between bands.
//   - [Angular]: a [Linear] scale over an [AngularRange], [0, 2π) by default,
//     which also reports how much of the circle is left after gaps.
//
// # Degenerate Input
//
// A zero-width domain is widened by [Epsilon] (scaled by the magnitude of the
// value) and an empty domain becomes [0, 1]. Both cases are reported as
// DEGENERATE_INPUT diagnostics. A malformed explicit domain is a
// configuration error returned from [Build].
package scale
