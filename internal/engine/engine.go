// Package engine implements the analysis core: denoising raw capture events
// into a focus timeline, clustering events into workflow sessions, scoring
// friction, detecting recurring patterns by intent similarity, aggregating
// weekly friction trends, and measuring replacement ROI.
//
// Every function here is pure and synchronous: no I/O, no clocks (callers
// pass "now" where freshness matters), no retained references, no mutation
// of inputs. Ties are always resolved by first-encountered order so results
// are reproducible.
package engine

import "math"

// round1 rounds to one decimal place, matching the precision persisted for
// durations and per-week minutes.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round3 rounds to three decimal places, used for ratios.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
