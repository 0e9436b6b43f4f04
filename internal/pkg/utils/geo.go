package utils

import "math"

// PlanarDistance returns the Euclidean distance between two coordinate
// pairs of a projected CRS, in the CRS's native linear unit.
func PlanarDistance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// RoundMeters rounds a distance to a whole number of meters, halves
// rounding away from zero (482.4 -> 482, 482.6 -> 483).
func RoundMeters(d float64) int {
	return int(math.Round(d))
}
