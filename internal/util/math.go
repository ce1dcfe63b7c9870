// Package util provides common utility functions for score and price math.
package util

import "math"

// ClampScore clamps a dimension score to the [0, 100] band.
func ClampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Round2 rounds x to 2 decimal places, half away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Round1 rounds x to 1 decimal place, half away from zero.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}
