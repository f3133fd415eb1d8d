// ABOUTME: Derived per-set metrics.
// ABOUTME: Epley one-rep max estimate and set volume.
package calc

// OneRM estimates a one-rep max with the Epley formula.
func OneRM(weight, reps float64) float64 {
	return weight * (1 + reps/30)
}

// Volume is the weight moved by one set.
func Volume(weight, reps float64) float64 {
	return weight * reps
}
