package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vizbind/pkg/accessor"
	"github.com/matzehuels/vizbind/pkg/errors"
)

func records(rows ...map[string]any) []accessor.Datum {
	out := make([]accessor.Datum, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

func bounds(t *testing.T, s Scale) (float64, float64) {
	t.Helper()
	d := s.Domain()
	require.Len(t, d, 2)
	return d[0].(float64), d[1].(float64)
}

func TestContinuousDomainSingleAccessor(t *testing.T) {
	data := records(
		map[string]any{"id": "a", "v": 1.0},
		map[string]any{"id": "b", "v": 3.0},
	)
	s, diags, err := Build(Config{
		Series: accessor.SeriesOf(accessor.Field("v")),
		Range:  [2]float64{0, 100},
	}, data)
	require.NoError(t, err)
	assert.Empty(t, diags)

	lo, hi := bounds(t, s)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 3.0, hi)

	px, ok := s.Map(2.0)
	require.True(t, ok)
	assert.InDelta(t, 50, px, 1e-9)
}

func TestContinuousDomainUnionOfSeries(t *testing.T) {
	data := records(
		map[string]any{"y": 4.0, "y1": -2.0, "y2": "n/a"},
		map[string]any{"y": 5.0, "y1": 1.0, "y2": 11.0},
		map[string]any{"y": math.NaN(), "y1": 0.0},
	)
	series := accessor.SeriesOf(accessor.Field("y"), accessor.Field("y1"), accessor.Field("y2"))
	s, _, err := Build(Config{Series: series, Range: [2]float64{0, 1}}, data)
	require.NoError(t, err)

	lo, hi := bounds(t, s)
	assert.Equal(t, -2.0, lo)
	assert.Equal(t, 11.0, hi)

	// Every finite value lies inside the domain.
	for _, fn := range series.Resolve() {
		for i, d := range data {
			if v, ok := accessor.Number(fn(d, i, data)); ok {
				assert.GreaterOrEqual(t, v, lo)
				assert.LessOrEqual(t, v, hi)
			}
		}
	}
}

func TestContinuousDomainVectorValues(t *testing.T) {
	data := []accessor.Datum{[]float64{3, 9}, []any{-1.0, "x"}}
	lo, hi, n := Extent(accessor.SeriesOf(accessor.Of(func(d accessor.Datum, _ int, _ []accessor.Datum) any {
		return d
	})), data)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 9.0, hi)
	assert.Equal(t, 3, n)
}

func TestContinuousDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		data   []accessor.Datum
		lo, hi float64
	}{
		{"empty", nil, 0, 1},
		{"non-numeric only", records(map[string]any{"v": "x"}), 0, 1},
		{"single value", records(map[string]any{"v": 5.0}, map[string]any{"v": 5.0}), 5 - 5*Epsilon, 5 + 5*Epsilon},
		{"zero", records(map[string]any{"v": 0.0}), -Epsilon, Epsilon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, diags, err := Build(Config{
				Series: accessor.SeriesOf(accessor.Field("v")),
				Range:  [2]float64{0, 10},
			}, tt.data)
			require.NoError(t, err)
			require.Len(t, diags, 1)
			assert.Equal(t, errors.DiagDegenerateInput, diags[0].Code)

			lo, hi := bounds(t, s)
			assert.InDelta(t, tt.lo, lo, 1e-12)
			assert.InDelta(t, tt.hi, hi, 1e-12)
			assert.Less(t, lo, hi)

			px, ok := s.Map(lo)
			require.True(t, ok)
			assert.False(t, math.IsNaN(px))
		})
	}
}

func TestExplicitDomain(t *testing.T) {
	tests := []struct {
		name    string
		domain  []any
		wantErr bool
	}{
		{"ordered", []any{0, 10}, false},
		{"equal", []any{2.0, 2.0}, false},
		{"reversed", []any{10, 0}, true},
		{"one value", []any{1}, true},
		{"three values", []any{1, 2, 3}, true},
		{"non-numeric", []any{"a", 2}, true},
		{"infinite", []any{0, math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Build(Config{Domain: tt.domain, Range: [2]float64{0, 1}}, nil)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeMalformedDomain))
			assert.True(t, errors.IsConfiguration(err))
		})
	}
}

func TestExplicitDomainIgnoresData(t *testing.T) {
	data := records(map[string]any{"v": 500.0})
	s, _, err := Build(Config{
		Series: accessor.SeriesOf(accessor.Field("v")),
		Domain: []any{0, 10},
		Range:  [2]float64{0, 100},
		Clamp:  true,
	}, data)
	require.NoError(t, err)

	px, _ := s.Map(500.0)
	assert.Equal(t, 100.0, px)
}

func TestInvalidRange(t *testing.T) {
	_, _, err := Build(Config{Range: [2]float64{0, math.NaN()}}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestNice(t *testing.T) {
	data := records(map[string]any{"v": 0.3}, map[string]any{"v": 9.7})
	s, _, err := Build(Config{
		Series: accessor.SeriesOf(accessor.Field("v")),
		Range:  [2]float64{0, 1},
		Nice:   true,
	}, data)
	require.NoError(t, err)

	lo, hi := bounds(t, s)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 10.0, hi)
}

func TestLinearInvertAndTicks(t *testing.T) {
	s := NewLinear(0, 10, [2]float64{300, 0})

	assert.InDelta(t, 150, s.MapFloat(5), 1e-9)
	assert.InDelta(t, 2.5, s.Invert(225), 1e-9)
	assert.Equal(t, []float64{0, 5, 10}, s.Ticks(6))
	assert.Nil(t, s.Ticks(0))

	_, ok := s.Map("5")
	assert.False(t, ok)
}

func TestCategoricalFirstAppearance(t *testing.T) {
	data := records(
		map[string]any{"c": "c"},
		map[string]any{"c": "a"},
		map[string]any{"c": "c"},
		map[string]any{},
		map[string]any{"c": "b"},
	)
	s, diags, err := Build(Config{
		Type:   Categorical,
		Series: accessor.SeriesOf(accessor.Field("c")),
		Range:  [2]float64{0, 300},
	}, data)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, []any{"c", "a", "b"}, s.Domain())

	b := s.(*Band)
	assert.InDelta(t, 100, b.Step(), 1e-9)
	assert.InDelta(t, 100, b.Bandwidth(), 1e-9)
	for v, want := range map[string]float64{"c": 0, "a": 100, "b": 200} {
		got, ok := b.Map(v)
		require.True(t, ok)
		assert.InDelta(t, want, got, 1e-9, v)
	}
	_, ok := b.Map("z")
	assert.False(t, ok)
}

func TestBandPadding(t *testing.T) {
	b := NewBand([]any{"a", "b", "c"}, [2]float64{0, 300}, 0.2, 0.1)
	assert.InDelta(t, 100, b.Step(), 1e-9)
	assert.InDelta(t, 80, b.Bandwidth(), 1e-9)

	want := []float64{10, 110, 210}
	for i, v := range b.Domain() {
		got, _ := b.Map(v)
		assert.InDelta(t, want[i], got, 1e-9)
	}
	c, _ := b.Center("b")
	assert.InDelta(t, 150, c, 1e-9)
}

func TestBandReversedRange(t *testing.T) {
	b := NewBand([]any{"a", "b", "c"}, [2]float64{300, 0}, 0, 0)
	for v, want := range map[string]float64{"a": 200, "b": 100, "c": 0} {
		got, _ := b.Map(v)
		assert.InDelta(t, want, got, 1e-9, v)
	}
}

func TestCategoricalExplicitDuplicates(t *testing.T) {
	_, _, err := Build(Config{Type: Categorical, Domain: []any{"a", "b", "a"}}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestCategoricalEmpty(t *testing.T) {
	s, diags, err := Build(Config{Type: Categorical, Range: [2]float64{0, 10}}, nil)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Empty(t, s.Domain())
	assert.Nil(t, s.Ticks(5))
}

func TestAngular(t *testing.T) {
	data := records(map[string]any{"v": 0.0}, map[string]any{"v": 4.0})
	s, _, err := Build(Config{
		Type:   Angular,
		Series: accessor.SeriesOf(accessor.Field("v")),
		Gap:    0.1,
	}, data)
	require.NoError(t, err)

	a := s.(*AngularScale)
	assert.Equal(t, [2]float64{0, 2 * math.Pi}, a.Range())
	px, _ := a.Map(2.0)
	assert.InDelta(t, math.Pi, px, 1e-9)

	assert.True(t, a.Angular.Closed())
	assert.Equal(t, 3, a.Angular.Gaps(3))
	assert.InDelta(t, 2*math.Pi-0.3, a.Angular.Available(3), 1e-9)
}

func TestAngularRangeOpenArc(t *testing.T) {
	r := AngularRange{Start: 0, End: math.Pi, Gap: 0.1}
	assert.False(t, r.Closed())
	assert.Equal(t, 2, r.Gaps(3))
	assert.InDelta(t, math.Pi-0.2, r.Available(3), 1e-9)
	assert.Equal(t, 0, r.Gaps(0))

	// Gaps never consume more than half the span.
	huge := AngularRange{Start: 0, End: 1, Gap: 10}
	assert.InDelta(t, 0.5, huge.Available(2), 1e-9)
}

func TestParseType(t *testing.T) {
	for in, want := range map[string]Type{
		"":            Continuous,
		"linear":      Continuous,
		"band":        Categorical,
		"Categorical": Categorical,
		"angular":     Angular,
	} {
		got, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseType("log")
	assert.Error(t, err)
}
