package utils

// MapToCube maps a point from its box bounds onto the unit cube [0,1]^d.
// Components with zero-width bounds map to 0.
func MapToCube(x []float64, bounds [][2]float64) []float64 {
	z := make([]float64, len(x))
	for i, v := range x {
		lo, hi := bounds[i][0], bounds[i][1]
		if hi > lo {
			z[i] = (v - lo) / (hi - lo)
		}
	}
	return z
}

// MapToBounds maps a unit-cube point back onto its box bounds.
func MapToBounds(z []float64, bounds [][2]float64) []float64 {
	x := make([]float64, len(z))
	for i, v := range z {
		lo, hi := bounds[i][0], bounds[i][1]
		x[i] = lo + v*(hi-lo)
	}
	return x
}
