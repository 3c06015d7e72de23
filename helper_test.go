package attdyn

import (
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

func vectorsEqual(a, b []float64, ε float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := len(a) - 1; i >= 0; i-- {
		if !floats.EqualWithinAbs(a[i], b[i], ε) {
			return false
		}
	}
	return true
}

func matricesEqual(a, b *mat64.Dense, ε float64) bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !floats.EqualWithinAbs(a.At(i, j), b.At(i, j), ε) {
				return false
			}
		}
	}
	return true
}

// isOrthonormal checks R·Rᵀ = I and det(R) = 1.
func isOrthonormal(r *mat64.Dense, ε float64) bool {
	var rrt mat64.Dense
	rrt.Mul(r, r.T())
	if !matricesEqual(&rrt, Identity33(), ε) {
		return false
	}
	return floats.EqualWithinAbs(mat64.Det(r), 1, ε)
}
