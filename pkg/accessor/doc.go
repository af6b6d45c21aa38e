// Package accessor normalizes "a value or a per-datum function" into a
// uniform evaluator.
//
// # Overview
//
// Every visual channel of a chart (x, y, color, key, label, ...) is configured
// with an [Accessor]. An accessor is a tagged union of three states:
//
//   - absent: the zero value; evaluates to [Undefined]
//   - constant: [Constant] returns the same value for every datum
//   - function: [Of] evaluates (datum, index, sequence) per datum
//
// [Accessor.Resolve] turns any of these into a [Func] that always evaluates.
// Downstream stages decide how to treat [Undefined]: scales skip it, the data
// join falls back to positional keys, the hierarchy treats it as "no value".
//
// # Typed Accessors
//
// Callers with concrete record types can use [Typed] to avoid type assertions:
//
//	y := accessor.Typed(func(r Record, _ int) float64 { return r.Value })
//
// Records decoded from JSON or YAML files are map[string]any and are read with
// [Field]:
//
//	x := accessor.Field("x")
//
// # Determinism
//
// Accessors must be deterministic for a given (datum, index, sequence) triple
// within one update pass. Resolution never caches values, so accessors that
// close over external state observe it afresh on every pass.
package accessor
