package component

import "github.com/matzehuels/vizbind/pkg/accessor"

// Palette is the default color cycle.
var Palette = []string{
	"#4D8CFD", "#F4B83E", "#FF6B7E", "#A6CC74",
	"#00C19A", "#6859BE", "#FF8C2A", "#81B5F6",
}

// colorAt returns colors[i], falling back to the palette.
func colorAt(colors []string, i int) string {
	if i < len(colors) && colors[i] != "" {
		return colors[i]
	}
	return Palette[i%len(Palette)]
}

// textOr evaluates a and returns its text, or def when it is empty.
func textOr(a accessor.Accessor, d accessor.Datum, i int, data []accessor.Datum, def string) string {
	if !a.IsSet() {
		return def
	}
	if s := accessor.Text(a.Eval(d, i, data)); s != "" {
		return s
	}
	return def
}

// numberOr evaluates a and returns its numeric value, or def.
func numberOr(a accessor.Accessor, d accessor.Datum, i int, data []accessor.Datum, def float64) float64 {
	if !a.IsSet() {
		return def
	}
	if f, ok := accessor.Number(a.Eval(d, i, data)); ok {
		return f
	}
	return def
}
