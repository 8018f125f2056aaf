package zonetone

import (
	"fmt"
	"math"
)

// ExponentialAverage is a first-order IIR low-pass filter used as the
// adaptive baseline for one logical zone. Smaller alpha means slower
// adaptation (longer effective memory). One instance per zone, never
// reset during normal operation.
type ExponentialAverage struct {
	alpha  float64
	avg    float64
	seeded bool
}

// NewExponentialAverage requires 0.0 <= alpha <= 1.0.
func NewExponentialAverage(alpha float64) (*ExponentialAverage, error) {
	if alpha < 0.0 || alpha > 1.0 || math.IsNaN(alpha) {
		return nil, fmt.Errorf("alpha must be between 0 and 1, got %v", alpha)
	}
	return &ExponentialAverage{alpha: alpha}, nil
}

// Update folds a new reading into the average.
// The first reading seeds the average directly.
func (ea *ExponentialAverage) Update(x float64) {
	if !ea.seeded {
		ea.avg = x
		ea.seeded = true
		return
	}
	ea.avg = ea.avg*(1.0-ea.alpha) + x*ea.alpha
}

// Average returns the current estimate and whether one exists yet.
func (ea *ExponentialAverage) Average() (float64, bool) {
	return ea.avg, ea.seeded
}

// Normalize returns the relative deviation of a raw reading from the
// baseline: (raw - avg) / avg. Without a baseline, or with a zero
// baseline, it returns 0 instead of letting NaN/Inf downstream.
func (ea *ExponentialAverage) Normalize(raw float64) float64 {
	if !ea.seeded || ea.avg == 0.0 {
		return 0.0
	}
	n := (raw - ea.avg) / ea.avg
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0.0
	}
	return n
}
