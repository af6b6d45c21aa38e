package errors

import (
	"math"
	"time"
)

// ValidateDuration rejects negative animation durations. Zero means the
// update is applied immediately.
func ValidateDuration(d time.Duration) error {
	if d < 0 {
		return New(ErrCodeConfiguration, "duration must be non-negative, got %s", d)
	}
	return nil
}

// ValidateRange checks that an output range has finite endpoints.
// Reversed ranges are allowed (e.g. a y axis running bottom to top).
func ValidateRange(lo, hi float64) error {
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return New(ErrCodeConfiguration, "range [%v, %v] must be finite", lo, hi)
	}
	return nil
}
