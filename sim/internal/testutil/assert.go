// Package testutil provides shared test assertion helpers for the sim packages.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertNonIncreasing fails if values ever increase by more than tol between neighbors.
func AssertNonIncreasing(t *testing.T, name string, values []float64, tol float64) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1]+tol {
			t.Errorf("%s: value %d (%v) exceeds value %d (%v)", name, i, values[i], i-1, values[i-1])
		}
	}
}
