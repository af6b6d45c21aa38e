// Package spec decodes chart specifications from TOML or YAML.
//
// A spec names the datum key, the transition settings and the components
// of a chart. Channels are written as field names; any non-string value,
// or a string starting with "=", is a constant:
//
//	key = "id"
//	duration = "750ms"
//
//	[[component]]
//	type = "line"
//	x = "date"
//	y = ["low", "high"]
//
//	[[component]]
//	type = "axis"
//	axis = "x"
//
// [Chart.Config] turns the decoded spec into a [chart.Config].
package spec
