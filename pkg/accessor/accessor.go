package accessor

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Datum is an opaque caller record. The engine only reads it through accessors.
type Datum = any

// Func evaluates a channel value for the datum at index i of data.
type Func func(d Datum, i int, data []Datum) any

// Kind is the tag of an Accessor.
type Kind int

const (
	// KindAbsent marks an unset accessor. It resolves to Undefined.
	KindAbsent Kind = iota
	// KindConstant ignores its arguments and returns a fixed value.
	KindConstant
	// KindFunc evaluates a function per datum.
	KindFunc
)

func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindFunc:
		return "func"
	default:
		return "absent"
	}
}

type undefined struct{}

func (undefined) String() string { return "undefined" }

// Undefined is returned by absent accessors.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined sentinel or nil.
func IsUndefined(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(undefined)
	return ok
}

// Accessor is a constant or a per-datum function. The zero value is absent.
type Accessor struct {
	kind  Kind
	value any
	fn    Func
}

// Constant returns an accessor that yields v for every datum.
func Constant(v any) Accessor {
	return Accessor{kind: KindConstant, value: v}
}

// Of returns an accessor backed by fn. A nil fn yields an absent accessor.
func Of(fn Func) Accessor {
	if fn == nil {
		return Accessor{}
	}
	return Accessor{kind: KindFunc, fn: fn}
}

// Typed adapts a function over a concrete record type. Datums of another type
// evaluate to Undefined.
func Typed[D, V any](fn func(d D, i int) V) Accessor {
	if fn == nil {
		return Accessor{}
	}
	return Of(func(d Datum, i int, _ []Datum) any {
		rec, ok := d.(D)
		if !ok {
			return Undefined
		}
		return fn(rec, i)
	})
}

// Field reads a named field from map[string]any records.
func Field(name string) Accessor {
	return Of(func(d Datum, _ int, _ []Datum) any {
		m, ok := d.(map[string]any)
		if !ok {
			return Undefined
		}
		v, ok := m[name]
		if !ok {
			return Undefined
		}
		return v
	})
}

// Index returns an accessor yielding the datum's position.
func Index() Accessor {
	return Of(func(_ Datum, i int, _ []Datum) any { return i })
}

// Kind returns the accessor's tag.
func (a Accessor) Kind() Kind { return a.kind }

// IsSet reports whether the accessor is not absent.
func (a Accessor) IsSet() bool { return a.kind != KindAbsent }

// IsConstant reports whether the accessor ignores its arguments.
func (a Accessor) IsConstant() bool { return a.kind == KindConstant }

// Value returns the constant value, or Undefined for non-constant accessors.
func (a Accessor) Value() any {
	if a.kind != KindConstant {
		return Undefined
	}
	return a.value
}

// Resolve returns an evaluator that always evaluates.
func (a Accessor) Resolve() Func {
	switch a.kind {
	case KindConstant:
		v := a.value
		return func(Datum, int, []Datum) any { return v }
	case KindFunc:
		return a.fn
	default:
		return func(Datum, int, []Datum) any { return Undefined }
	}
}

// Eval evaluates the accessor for one datum.
func (a Accessor) Eval(d Datum, i int, data []Datum) any {
	return a.Resolve()(d, i, data)
}

// Series is an ordered set of accessors bound to one visual channel, such as
// several y accessors sharing one y scale.
type Series []Accessor

// SeriesOf builds a Series from accessors, dropping absent ones.
func SeriesOf(accessors ...Accessor) Series {
	s := make(Series, 0, len(accessors))
	for _, a := range accessors {
		if a.IsSet() {
			s = append(s, a)
		}
	}
	return s
}

// Resolve resolves every accessor in the series.
func (s Series) Resolve() []Func {
	fns := make([]Func, len(s))
	for i, a := range s {
		fns[i] = a.Resolve()
	}
	return fns
}

// Number converts v to a finite float64. Numeric strings are not coerced:
// a value is numeric only if its Go type is.
func Number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int8:
		f = float64(x)
	case int16:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint8:
		f = float64(x)
	case uint16:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		var err error
		if f, err = x.Float64(); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Text formats v for display and for use as an identity key.
func Text(v any) string {
	switch x := v.(type) {
	case nil, undefined:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	}
	return fmt.Sprint(v)
}

// Strings converts v to a string slice, accepting []string and []any.
func Strings(v any) ([]string, bool) {
	switch x := v.(type) {
	case []string:
		return x, true
	case []any:
		out := make([]string, len(x))
		for i, e := range x {
			out[i] = Text(e)
		}
		return out, true
	}
	return nil, false
}
