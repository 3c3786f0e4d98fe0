package domain

import "math"

// DefaultPvThreshold is the EPIC minimum velocity amplitude check.
const DefaultPvThreshold = 3.16e-8

// TriggerIndex returns the smallest index whose absolute sample strictly
// exceeds threshold, or 0 when no sample does.
func TriggerIndex(samples []float64, threshold float64) int {
	for i, v := range samples {
		if math.Abs(v) > threshold {
			return i
		}
	}
	return 0
}

// DetectTrigger maps TriggerIndex to elapsed seconds.
func DetectTrigger(samples []float64, threshold, delta float64) float64 {
	return float64(TriggerIndex(samples, threshold)) * delta
}
