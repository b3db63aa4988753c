// Package report holds the numeric-safety helpers and persistence for the
// analysis outputs. Every numeric leaf that reaches JSON must be a plain
// finite float; NaN and infinities are scrubbed to 0 at construction time.
package report

import "math"

// Scrub maps NaN and ±Inf to 0 so the value is JSON-representable.
func Scrub(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Round scrubs and rounds to the given number of decimal places.
func Round(v float64, places int) float64 {
	v = Scrub(v)
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ScrubMap scrubs every value of a confidence mapping. Nil maps become
// empty maps so the JSON field is `{}` rather than `null`.
func ScrubMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = Scrub(v)
	}
	return out
}
