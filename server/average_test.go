package zonetone

import (
	"math"
	"testing"
)

func TestNewExponentialAverage(t *testing.T) {
	for _, alpha := range []float64{-0.1, 1.1, math.NaN()} {
		if _, err := NewExponentialAverage(alpha); err == nil {
			t.Errorf("NewExponentialAverage(%v) accepted an invalid alpha", alpha)
		}
	}
	for _, alpha := range []float64{0.0, 0.001, 1.0} {
		if _, err := NewExponentialAverage(alpha); err != nil {
			t.Errorf("NewExponentialAverage(%v) = %v, want nil", alpha, err)
		}
	}
}

func TestExponentialAverage_Update(t *testing.T) {
	t.Run("First update seeds the average", func(t *testing.T) {
		ea, _ := NewExponentialAverage(0.5)
		if _, ok := ea.Average(); ok {
			t.Error("Average() reported a value before any update")
		}
		ea.Update(42.0)
		got, ok := ea.Average()
		if !ok || got != 42.0 {
			t.Errorf("Average() = (%v, %v), want (42.0, true)", got, ok)
		}
	})

	t.Run("Alpha 1.0 has no memory", func(t *testing.T) {
		ea, _ := NewExponentialAverage(1.0)
		for _, x := range []float64{10, 200, 3.5} {
			ea.Update(x)
			got, _ := ea.Average()
			if got != x {
				t.Errorf("Average() = %v, want most recent input %v", got, x)
			}
		}
	})

	t.Run("Alpha 0.0 never moves after the seed", func(t *testing.T) {
		ea, _ := NewExponentialAverage(0.0)
		ea.Update(100)
		ea.Update(9999)
		ea.Update(-50)
		got, _ := ea.Average()
		if got != 100 {
			t.Errorf("Average() = %v, want the seed value 100", got)
		}
	})

	t.Run("Middle alpha blends old and new", func(t *testing.T) {
		ea, _ := NewExponentialAverage(0.5)
		ea.Update(0)
		ea.Update(10)
		got, _ := ea.Average()
		if got != 5.0 {
			t.Errorf("Average() = %v, want 5.0", got)
		}
	})
}

func TestExponentialAverage_Normalize(t *testing.T) {
	t.Run("No baseline yet returns zero", func(t *testing.T) {
		ea, _ := NewExponentialAverage(0.1)
		if got := ea.Normalize(500); got != 0.0 {
			t.Errorf("Normalize(500) = %v, want 0.0 with no baseline", got)
		}
	})

	t.Run("Zero baseline returns zero instead of Inf", func(t *testing.T) {
		ea, _ := NewExponentialAverage(0.0)
		ea.Update(0.0)
		if got := ea.Normalize(500); got != 0.0 {
			t.Errorf("Normalize(500) = %v, want 0.0 with a zero baseline", got)
		}
	})

	t.Run("Relative deviation", func(t *testing.T) {
		ea, _ := NewExponentialAverage(0.0)
		ea.Update(100)
		if got := ea.Normalize(150); got != 0.5 {
			t.Errorf("Normalize(150) = %v, want 0.5", got)
		}
		if got := ea.Normalize(50); got != -0.5 {
			t.Errorf("Normalize(50) = %v, want -0.5", got)
		}
	})
}
