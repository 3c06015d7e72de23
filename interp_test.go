package attdyn

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestLinearInterpolator(t *testing.T) {
	times := []float64{0, 10, 20, 30}
	values := [][]float64{{0, 1}, {10, 2}, {20, 4}, {30, 8}}
	li := NewLinearInterpolator(times, values)
	lo, hi := li.Domain()
	if lo != 0 || hi != 30 {
		t.Fatalf("wrong domain [%f %f]", lo, hi)
	}
	// Exact on nodes.
	for i, tm := range times {
		out, err := li.Interpolate(tm)
		if err != nil {
			t.Fatal(err)
		}
		if !vectorsEqual(out, values[i], 0) {
			t.Fatalf("node %d not reproduced exactly", i)
		}
	}
	// Midpoint.
	out, err := li.Interpolate(15)
	if err != nil {
		t.Fatal(err)
	}
	if !vectorsEqual(out, []float64{15, 3}, 1e-14) {
		t.Fatalf("midpoint interpolation wrong: %+v", out)
	}
	// Out of domain.
	if _, err = li.Interpolate(-1); err != ErrTimeOutOfRange {
		t.Fatal("expected ErrTimeOutOfRange below the domain")
	}
	if _, err = li.Interpolate(31); err != ErrTimeOutOfRange {
		t.Fatal("expected ErrTimeOutOfRange above the domain")
	}
}

func TestLinearInterpolatorFromMap(t *testing.T) {
	li := NewLinearInterpolatorFromMap(map[float64][]float64{2: {20}, 0: {0}, 1: {10}})
	out, err := li.Interpolate(0.5)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(out[0], 5, 1e-14) {
		t.Fatal("map keys were not sorted")
	}
}

func TestLinearInterpolatorMalformed(t *testing.T) {
	assertPanic(t, func() { NewLinearInterpolator([]float64{0}, [][]float64{{1}}) })
	assertPanic(t, func() { NewLinearInterpolator([]float64{0, 1}, [][]float64{{1}}) })
	assertPanic(t, func() { NewLinearInterpolator([]float64{0, 0}, [][]float64{{1}, {2}}) })
}

func TestLagrangeInterpolatorPolynomial(t *testing.T) {
	// A 4-point window reproduces any cubic exactly.
	cubic := func(x float64) float64 { return 2*x*x*x - 3*x*x + x - 5 }
	times := make([]float64, 10)
	values := make([][]float64, 10)
	for i := range times {
		times[i] = float64(i)
		values[i] = []float64{cubic(times[i])}
	}
	la := NewLagrangeInterpolator(times, values, 4)
	for _, x := range []float64{0.5, 3.3, 4.99, 8.7, 9} {
		out, err := la.Interpolate(x)
		if err != nil {
			t.Fatal(err)
		}
		if !floats.EqualWithinAbs(out[0], cubic(x), 1e-10) {
			t.Fatalf("cubic not reproduced at %f: got %f want %f", x, out[0], cubic(x))
		}
	}
}

func TestLagrangeInterpolatorHarmonic(t *testing.T) {
	// Eight points on a slow harmonic: interpolation error far below the
	// derivative consistency tolerance used by tabulated ephemerides.
	ω := 7.088218e-5
	times := make([]float64, 400)
	values := make([][]float64, 400)
	for i := range times {
		times[i] = float64(i) * 10
		s, c := math.Sincos(ω * times[i])
		values[i] = []float64{s, c}
	}
	la := NewLagrangeInterpolator(times, values, 8)
	for _, x := range []float64{5, 42.7, 1995, 3987.2} {
		out, err := la.Interpolate(x)
		if err != nil {
			t.Fatal(err)
		}
		s, c := math.Sincos(ω * x)
		if !vectorsEqual(out, []float64{s, c}, 1e-14) {
			t.Fatalf("harmonic not reproduced at %f", x)
		}
	}
	// Window clamping at the edges still answers.
	if _, err := la.Interpolate(0); err != nil {
		t.Fatal(err)
	}
	if _, err := la.Interpolate(3990); err != nil {
		t.Fatal(err)
	}
	if _, err := la.Interpolate(3990.5); err != ErrTimeOutOfRange {
		t.Fatal("expected ErrTimeOutOfRange above the domain")
	}
}

func TestLagrangeInterpolatorOddPoints(t *testing.T) {
	times := []float64{0, 1, 2, 3}
	values := [][]float64{{0}, {1}, {2}, {3}}
	assertPanic(t, func() { NewLagrangeInterpolator(times, values, 3) })
}
