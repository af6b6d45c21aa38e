package scale

import (
	"math"
	"strings"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/errors"
)

// Epsilon is the relative half-width used to widen a zero-width domain.
const Epsilon = 1e-6

// DefaultNiceTicks is the tick budget used when rounding a domain outward.
const DefaultNiceTicks = 10

// Type selects the kind of scale to build.
type Type int

const (
	Continuous Type = iota
	Categorical
	Angular
)

func (t Type) String() string {
	switch t {
	case Categorical:
		return "categorical"
	case Angular:
		return "angular"
	default:
		return "continuous"
	}
}

// ParseType parses a scale type name. The d3-style aliases "linear" and
// "band" are accepted.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continuous", "linear":
		return Continuous, nil
	case "categorical", "band", "ordinal":
		return Categorical, nil
	case "angular", "radial":
		return Angular, nil
	}
	return Continuous, errors.New(errors.ErrCodeConfiguration, "unknown scale type %q", s)
}

// Scale maps domain values to output coordinates.
type Scale interface {
	// Map returns the output coordinate of v. It reports false when v is
	// not part of the scale's input space (non-numeric for continuous
	// scales, unknown category for band scales).
	Map(v any) (float64, bool)
	Domain() []any
	Range() [2]float64
	Ticks(max int) []float64
}

// Config describes one channel's scale.
type Config struct {
	Type   Type
	Series accessor.Series

	// Domain overrides inference. Continuous and angular scales take
	// exactly two finite numbers; categorical scales take distinct values.
	Domain []any
	Range  [2]float64

	PaddingInner float64 // Categorical only, fraction of step in [0, 1]
	PaddingOuter float64 // Categorical only, fraction of step

	Nice      bool // Round a continuous domain outward to tick values
	NiceTicks int  // Tick budget for Nice (default DefaultNiceTicks)
	Clamp     bool

	// Angular only. Start and end angle come from Range; zero Range means
	// a full circle. Gap is the padding between adjacent segments.
	Gap float64
}

// Build computes the scale described by cfg over the full dataset.
func Build(cfg Config, data []accessor.Datum) (Scale, []errors.Diagnostic, error) {
	if err := errors.ValidateRange(cfg.Range[0], cfg.Range[1]); err != nil {
		return nil, nil, err
	}
	switch cfg.Type {
	case Categorical:
		return buildBand(cfg, data)
	case Angular:
		if cfg.Range == [2]float64{} {
			cfg.Range = [2]float64{0, 2 * math.Pi}
		}
		lin, diags, err := buildLinear(cfg, data)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Gap < 0 || math.IsNaN(cfg.Gap) {
			return nil, nil, errors.New(errors.ErrCodeConfiguration, "angular gap must be non-negative, got %v", cfg.Gap)
		}
		return &AngularScale{
			Linear:  lin,
			Angular: AngularRange{Start: cfg.Range[0], End: cfg.Range[1], Gap: cfg.Gap},
		}, diags, nil
	default:
		return buildLinear(cfg, data)
	}
}

func buildLinear(cfg Config, data []accessor.Datum) (*Linear, []errors.Diagnostic, error) {
	var (
		lo, hi float64
		n      int
	)
	if cfg.Domain != nil {
		var err error
		if lo, hi, err = explicitExtent(cfg.Domain); err != nil {
			return nil, nil, err
		}
		n = 2
	} else {
		lo, hi, n = Extent(cfg.Series, data)
	}

	var diags []errors.Diagnostic
	switch {
	case n == 0:
		lo, hi = 0, 1
		diags = append(diags, errors.Diag(errors.DiagDegenerateInput, "scale",
			"no numeric values for %s domain, using [0, 1]", cfg.Type))
	case lo == hi:
		w := Epsilon * math.Max(1, math.Abs(lo))
		diags = append(diags, errors.Diag(errors.DiagDegenerateInput, "scale",
			"zero-width %s domain at %v, widened by %g", cfg.Type, lo, w))
		lo, hi = lo-w, hi+w
	}

	if cfg.Nice {
		ticks := cfg.NiceTicks
		if ticks <= 0 {
			ticks = DefaultNiceTicks
		}
		lo, hi = niceExtent(lo, hi, ticks)
	}
	s := NewLinear(lo, hi, cfg.Range)
	s.SetClamp(cfg.Clamp)
	return s, diags, nil
}

func explicitExtent(domain []any) (lo, hi float64, err error) {
	if len(domain) != 2 {
		return 0, 0, errors.New(errors.ErrCodeMalformedDomain,
			"continuous domain needs exactly 2 values, got %d", len(domain))
	}
	lo, okLo := accessor.Number(domain[0])
	hi, okHi := accessor.Number(domain[1])
	if !okLo || !okHi {
		return 0, 0, errors.New(errors.ErrCodeMalformedDomain,
			"continuous domain %v must hold finite numbers", domain)
	}
	if lo > hi {
		return 0, 0, errors.New(errors.ErrCodeMalformedDomain,
			"continuous domain [%v, %v] is not ordered", lo, hi)
	}
	return lo, hi, nil
}

// Extent returns the minimum and maximum over every finite numeric value
// produced by every accessor of series across data, and how many values
// contributed. Non-numeric results are skipped.
func Extent(series accessor.Series, data []accessor.Datum) (lo, hi float64, n int) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, fn := range series.Resolve() {
		for i, d := range data {
			for _, v := range numbers(fn(d, i, data)) {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
				n++
			}
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	return lo, hi, n
}

// numbers flattens an accessor result: a scalar yields itself, a numeric
// slice yields its finite elements.
func numbers(v any) []float64 {
	if f, ok := accessor.Number(v); ok {
		return []float64{f}
	}
	var out []float64
	switch xs := v.(type) {
	case []float64:
		for _, x := range xs {
			if f, ok := accessor.Number(x); ok {
				out = append(out, f)
			}
		}
	case []any:
		for _, x := range xs {
			if f, ok := accessor.Number(x); ok {
				out = append(out, f)
			}
		}
	}
	return out
}

// Categories returns the distinct values produced by series across data in
// first-appearance order. Values are compared by their text form and
// Undefined results are skipped.
func Categories(series accessor.Series, data []accessor.Datum) []any {
	seen := make(map[string]bool)
	var out []any
	for _, fn := range series.Resolve() {
		for i, d := range data {
			v := fn(d, i, data)
			if accessor.IsUndefined(v) {
				continue
			}
			k := accessor.Text(v)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}

func checkCategories(domain []any) error {
	seen := make(map[string]int, len(domain))
	for i, v := range domain {
		k := accessor.Text(v)
		if j, dup := seen[k]; dup {
			return errors.New(errors.ErrCodeMalformedDomain,
				"categorical domain repeats %q at positions %d and %d", k, j, i)
		}
		seen[k] = i
	}
	return nil
}
