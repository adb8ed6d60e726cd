// Package decay models how a rumor's truthfulness erodes as it is retold.
package decay

import "math"

// DefaultPerHopRate is the fraction of remaining truth lost on each retelling.
// It is an engine tuning parameter, not an authored per-template value.
const DefaultPerHopRate = 0.10

// DecayedTruth returns the truth value of a rumor after the given number of
// retellings.
//
// # Model
//
// Each retelling independently risks introducing a fixed fractional
// distortion, so truth compounds down multiplicatively:
//
//	truth = initial * (1 - rate)^hops
//
// A rumor becomes "half as reliable" with each span of hops rather than
// losing a flat amount per hop. The result is clamped to [0, 1].
//
// # Determinism
//
// DecayedTruth is a pure function. Given the same initial value, hop count,
// and rate it always produces the same result, and for a fixed initial value
// it is non-increasing in hops.
//
// Example:
//
//	DecayedTruth(0.7, 3, 0.10) // 0.7 * 0.9^3 = 0.5103
func DecayedTruth(initial float64, hops int, rate float64) float64 {
	if hops < 0 {
		hops = 0
	}
	value := initial * math.Pow(1-rate, float64(hops))
	return clamp(value, 0, 1)
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
