package scale

import (
	"math"

	"github.com/aclements/go-moremath/vec"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/errors"
)

// Band is a discrete scale that gives each category an equal band of the
// output range.
type Band struct {
	domain    []any
	index     map[string]int
	rng       [2]float64
	positions []float64
	step      float64
	bandwidth float64
}

var _ Scale = (*Band)(nil)

func buildBand(cfg Config, data []accessor.Datum) (*Band, []errors.Diagnostic, error) {
	if cfg.PaddingInner < 0 || cfg.PaddingInner > 1 || cfg.PaddingOuter < 0 {
		return nil, nil, errors.New(errors.ErrCodeConfiguration,
			"band padding inner=%v outer=%v out of range", cfg.PaddingInner, cfg.PaddingOuter)
	}
	domain := cfg.Domain
	if domain != nil {
		if err := checkCategories(domain); err != nil {
			return nil, nil, err
		}
	} else {
		domain = Categories(cfg.Series, data)
	}

	var diags []errors.Diagnostic
	if len(domain) == 0 {
		diags = append(diags, errors.Diag(errors.DiagDegenerateInput, "scale",
			"no categories for band domain"))
	}
	return NewBand(domain, cfg.Range, cfg.PaddingInner, cfg.PaddingOuter), diags, nil
}

// NewBand lays out domain across rng. Bands are centered in the range; the
// output range may be reversed.
func NewBand(domain []any, rng [2]float64, inner, outer float64) *Band {
	b := &Band{
		domain: domain,
		index:  make(map[string]int, len(domain)),
		rng:    rng,
	}
	for i, v := range domain {
		b.index[accessor.Text(v)] = i
	}

	n := float64(len(domain))
	lo, hi := rng[0], rng[1]
	reverse := hi < lo
	if reverse {
		lo, hi = hi, lo
	}
	b.step = (hi - lo) / math.Max(1, n-inner+2*outer)
	start := lo + (hi-lo-b.step*(n-inner))*0.5
	b.bandwidth = b.step * (1 - inner)

	if len(domain) > 0 {
		b.positions = vec.Linspace(start, start+b.step*(n-1), len(domain))
	}
	if reverse {
		for i, j := 0, len(b.positions)-1; i < j; i, j = i+1, j-1 {
			b.positions[i], b.positions[j] = b.positions[j], b.positions[i]
		}
	}
	return b
}

// Map returns the start of v's band.
func (b *Band) Map(v any) (float64, bool) {
	i, ok := b.index[accessor.Text(v)]
	if !ok {
		return 0, false
	}
	return b.positions[i], true
}

// Center returns the middle of v's band.
func (b *Band) Center(v any) (float64, bool) {
	p, ok := b.Map(v)
	return p + b.bandwidth/2, ok
}

// Bandwidth returns the width of one band.
func (b *Band) Bandwidth() float64 { return b.bandwidth }

// Step returns the distance between the starts of adjacent bands.
func (b *Band) Step() float64 { return b.step }

func (b *Band) Domain() []any     { return b.domain }
func (b *Band) Range() [2]float64 { return b.rng }

// Ticks returns the band centers, thinned to at most max values.
func (b *Band) Ticks(max int) []float64 {
	if max <= 0 || len(b.positions) == 0 {
		return nil
	}
	every := (len(b.positions) + max - 1) / max
	var out []float64
	for i := 0; i < len(b.positions); i += every {
		out = append(out, b.positions[i]+b.bandwidth/2)
	}
	return out
}
