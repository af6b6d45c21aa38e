package transition

import (
	"strings"

	"github.com/matzehuels/vizbind/pkg/errors"
)

// Ease maps normalized time in [0, 1] to progress in [0, 1].
type Ease func(t float64) float64

// Linear is constant speed.
func Linear(t float64) float64 { return t }

// CubicInOut accelerates then decelerates. It is the default easing.
func CubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}

// QuadOut decelerates.
func QuadOut(t float64) float64 { return t * (2 - t) }

// ParseEase returns the easing with the given name.
func ParseEase(name string) (Ease, error) {
	switch strings.ToLower(name) {
	case "", "cubic", "cubic-in-out", "cubicinout":
		return CubicInOut, nil
	case "linear":
		return Linear, nil
	case "quad-out", "quadout":
		return QuadOut, nil
	}
	return nil, errors.New(errors.ErrCodeConfiguration, "unknown easing %q", name)
}
